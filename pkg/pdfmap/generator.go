package pdfmap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kerbaras/ipofetch/pkg/data"
)

var (
	ErrNotDirectory = errors.New("pdfmap: path is not a directory")
	ErrNoPDFs       = errors.New("pdfmap: no PDF files found in directory")
	ErrNoBasename   = errors.New("pdfmap: could not determine basename for mapping file")
)

const mappingSuffix = "_mapping.json"

// Generator builds a cumulative page-offset mapping for the PDF files of
// one directory. PDF filenames are expected to sort lexicographically in
// chapter order; the naming scheme zero-pads chapter numbers to keep that
// contract.
type Generator struct {
	counter PageCounter
}

func NewGenerator(counter PageCounter) *Generator {
	if counter == nil {
		counter = DefaultCounter()
	}
	return &Generator{counter: counter}
}

// Generate scans dir (non-recursive) and returns the mapping document.
// metadataFilename optionally names the metadata file whose stem becomes
// the mapping basename. Any PDF parse failure aborts the whole operation;
// a partial mapping would misrepresent every later start page.
func (g *Generator) Generate(dir, metadataFilename string) (data.MappingDocument, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return data.MappingDocument{}, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	pdfFiles, err := filepath.Glob(filepath.Join(dir, "*.pdf"))
	if err != nil {
		return data.MappingDocument{}, err
	}
	if len(pdfFiles) == 0 {
		return data.MappingDocument{}, fmt.Errorf("%w: %s", ErrNoPDFs, dir)
	}
	sort.Strings(pdfFiles)

	basename, err := g.resolveBasename(dir, metadataFilename, pdfFiles)
	if err != nil {
		return data.MappingDocument{}, err
	}

	entries := make([]data.MappingEntry, 0, len(pdfFiles))
	startPage := 1
	for _, pdfFile := range pdfFiles {
		count, err := g.counter.CountPages(pdfFile)
		if err != nil {
			return data.MappingDocument{}, err
		}

		entries = append(entries, data.MappingEntry{
			Filename:  filepath.Base(pdfFile),
			PageCount: count,
			StartPage: startPage,
		})
		startPage += count
	}

	return data.MappingDocument{
		Basename:   basename,
		TotalFiles: len(entries),
		TotalPages: startPage - 1,
		Files:      entries,
	}, nil
}

// GenerateAndSave generates the mapping and writes it to
// {basename}_mapping.json inside dir, or to outputFilename if given.
// Returns the path of the written file.
func (g *Generator) GenerateAndSave(dir, metadataFilename, outputFilename string) (string, error) {
	doc, err := g.Generate(dir, metadataFilename)
	if err != nil {
		return "", err
	}

	name := outputFilename
	if name == "" {
		name = doc.Basename + mappingSuffix
	}
	outputPath := filepath.Join(dir, name)

	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, encoded, 0o644); err != nil {
		return "", fmt.Errorf("failed to write mapping file: %w", err)
	}

	return outputPath, nil
}

// resolveBasename picks the mapping basename, first match wins:
// the explicit metadata file, any metadata JSON in the directory, or a
// prefix derived from the first PDF filename.
func (g *Generator) resolveBasename(dir, metadataFilename string, pdfFiles []string) (string, error) {
	if metadataFilename != "" {
		candidate := filepath.Join(dir, metadataFilename)
		if _, err := os.Stat(candidate); err == nil {
			return stem(metadataFilename), nil
		}
	}

	jsonFiles, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return "", err
	}
	sort.Strings(jsonFiles)
	for _, jsonFile := range jsonFiles {
		name := filepath.Base(jsonFile)
		if strings.HasSuffix(name, mappingSuffix) {
			continue
		}
		return stem(name), nil
	}

	if len(pdfFiles) > 0 {
		// Filenames look like Company_DocID_chapter_01_Title.pdf; dropping
		// the last two underscore segments recovers Company_DocID... but
		// the scheme also embeds the "chapter" marker, so trim that too
		// when present.
		parts := strings.Split(stem(filepath.Base(pdfFiles[0])), "_")
		if len(parts) >= 3 {
			parts = parts[:len(parts)-2]
			if parts[len(parts)-1] == "chapter" {
				parts = parts[:len(parts)-1]
			}
			return strings.Join(parts, "_"), nil
		}
		return parts[0], nil
	}

	return "", ErrNoBasename
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
