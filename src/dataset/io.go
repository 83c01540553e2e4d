package dataset

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/hts/bgzf"
)

// WriteTSV writes the dataset as a tab separated table: id, label, then one column per vocabulary entry
func (d *Dataset) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString("id\tlabel"); err != nil {
		return err
	}
	for i := 0; i < d.Vocabulary.Len(); i++ {
		bw.WriteByte('\t')
		bw.WriteString(d.Vocabulary.Column(i))
	}
	bw.WriteByte('\n')
	buf := []byte{}
	for i, row := range d.Matrix {
		bw.WriteString(d.IDs[i])
		bw.WriteByte('\t')
		bw.WriteString(d.Labels[i])
		for _, v := range row {
			buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
			bw.WriteByte('\t')
			bw.Write(buf)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Dump writes the dataset to a TSV file, which is BGZF compressed if the path ends in .gz
func (d *Dataset) Dump(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	defer fh.Close()
	if !strings.HasSuffix(path, ".gz") {
		if err := d.WriteTSV(fh); err != nil {
			return err
		}
		return fh.Close()
	}
	bw := bgzf.NewWriter(fh, 1)
	if err := d.WriteTSV(bw); err != nil {
		bw.Close()
		return err
	}
	if err := bw.Close(); err != nil {
		return err
	}
	return fh.Close()
}
