package catalog

import (
	"bufio"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

// Output is one JSON document written by EmitAll.
type Output struct {
	Name    string
	Pretty  bool
	Records []Record
}

// Outputs lists the six documents emitted for a partitioned catalog.
func Outputs(p Partitions) []Output {
	return []Output{
		{Name: "kdb.json", Pretty: true, Records: p.All},
		{Name: "kdb.min.json", Pretty: false, Records: p.All},
		{Name: "kdb_undergrad.json", Pretty: true, Records: p.Undergraduate},
		{Name: "kdb_undergrad.min.json", Pretty: false, Records: p.Undergraduate},
		{Name: "kdb_grad.json", Pretty: true, Records: p.Graduate},
		{Name: "kdb_grad.min.json", Pretty: false, Records: p.Graduate},
	}
}

func WriteJSON(w io.Writer, records []Record, pretty bool) error {
	if records == nil {
		records = []Record{}
	}
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(records)
}

func WriteJSONFile(path string, records []Record, pretty bool) error {
	err := os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return &IOError{Op: "mkdir", Path: filepath.Dir(path), Err: err}
	}

	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "create", Path: path, Err: err}
	}
	defer f.Close()

	buffered := bufio.NewWriter(f)
	err = WriteJSON(buffered, records, pretty)
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	err = buffered.Flush()
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	err = f.Close()
	if err != nil {
		return &IOError{Op: "close", Path: path, Err: err}
	}
	return nil
}

// EmitAll writes every document from Outputs into dir and returns the
// written paths.
func EmitAll(dir string, p Partitions) ([]string, error) {
	var written []string
	for _, out := range Outputs(p) {
		path := filepath.Join(dir, out.Name)
		err := WriteJSONFile(path, out.Records, out.Pretty)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
