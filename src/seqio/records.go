package seqio

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/mholt/archiver"
)

// the file extensions recognised by LoadRecords
var (
	fastaExts   = []string{"fasta", "fa", "fna", "fas"}
	tsvExts     = []string{"tsv", "txt"}
	archiveExts = []string{".tar.gz", ".tgz", ".tar", ".zip"}
)

// ReadFASTA reads labelled records from FASTA formatted data
//
// The record label is the first word of the description line, falling back to the sequence ID
// when there is no description (">seq1 Escherichia_coli strain K12" is labelled "Escherichia_coli").
// Sequences are not validated here, that is left to Normalise.
func ReadFASTA(r io.Reader) ([]Record, error) {
	reader := fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNA))
	records := []Record{}
	for {
		s, err := reader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("could not read fasta entry %d: %w", len(records)+1, err)
		}
		ls, ok := s.(*linear.Seq)
		if !ok {
			return nil, fmt.Errorf("unexpected sequence type from fasta reader: %T", s)
		}
		label := ls.Name()
		if fields := strings.Fields(ls.Description()); len(fields) > 0 {
			label = fields[0]
		}
		records = append(records, Record{
			ID:       ls.Name(),
			Sequence: string(ls.Seq),
			Label:    label,
		})
	}
	return records, nil
}

// ReadTSV reads labelled records from tab separated data: sequence, label and an optional ID column
//
// A first line starting with "seq" is treated as a header. Records without an ID column are named
// after their line number.
func ReadTSV(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<28)
	records := []Record{}
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		fields := strings.Split(line, "\t")
		if lineNum == 1 && strings.HasPrefix(strings.ToLower(fields[0]), "seq") {
			continue
		}
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: expected sequence and label columns, got %d column(s)", lineNum, len(fields))
		}
		rec := Record{
			ID:       fmt.Sprintf("line-%d", lineNum),
			Sequence: strings.TrimSpace(fields[0]),
			Label:    strings.TrimSpace(fields[1]),
		}
		if len(fields) > 2 && strings.TrimSpace(fields[2]) != "" {
			rec.ID = strings.TrimSpace(fields[2])
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// ReadFile reads the records from a FASTA or TSV file (optionally gzipped), chosen by extension
func ReadFile(path string) ([]Record, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	var r io.Reader = fh
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(fh)
		if err != nil {
			return nil, fmt.Errorf("could not open gzipped file %v: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	switch {
	case hasExt(path, fastaExts):
		return ReadFASTA(r)
	case hasExt(path, tsvExts):
		return ReadTSV(r)
	}
	return nil, fmt.Errorf("file does not have recognised extension: %v", path)
}

// LoadRecords reads records from a list of files, in the order given
//
// Archives (.tar.gz, .tgz, .tar, .zip) are unpacked to a temporary directory and every
// recognised file inside them is read in lexical path order.
func LoadRecords(paths []string) ([]Record, error) {
	records := []Record{}
	for _, path := range paths {
		var recs []Record
		var err error
		if isArchive(path) {
			recs, err = loadArchive(path)
		} else {
			recs, err = ReadFile(path)
		}
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// loadArchive unpacks an archive and reads the corpus files it holds
func loadArchive(path string) ([]Record, error) {
	tmpDir, err := os.MkdirTemp("", "kmervec-corpus-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)
	if err := archiver.Unarchive(path, tmpDir); err != nil {
		return nil, fmt.Errorf("could not unpack archive %v: %w", path, err)
	}
	files := []string{}
	err = filepath.Walk(tmpDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		// ignore directories and dot files
		if info.IsDir() || strings.HasPrefix(info.Name(), ".") {
			return nil
		}
		if hasExt(p, fastaExts) || hasExt(p, tsvExts) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no FASTA or TSV files found in archive: %v", path)
	}
	sort.Strings(files)
	records := []Record{}
	for _, f := range files {
		recs, err := ReadFile(f)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}

// hasExt checks the extension of a file, ignoring any trailing .gz
func hasExt(path string, exts []string) bool {
	name := strings.TrimSuffix(strings.ToLower(path), ".gz")
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// isArchive checks if a file looks like an archive that can be unpacked
func isArchive(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range archiveExts {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
