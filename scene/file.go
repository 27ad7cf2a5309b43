package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// File is the on-disk form of a scene.
type File struct {
	Ready bool   `json:"ready"`
	Items []Item `json:"items"`
}

// Decode reads a scene file from r.
func Decode(r io.Reader) (*File, error) {
	var f File
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("scene: decode: %w", err)
	}
	if err := validate(f.Items); err != nil {
		return nil, err
	}
	return &f, nil
}

// Encode writes f to w as indented JSON.
func (f *File) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f)
}

// ReadFile loads a scene file.
func ReadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Decode(fh)
}

// WriteFile stores f at path.
func (f *File) WriteFile(path string) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := f.Encode(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// Find returns the item with the given id.
func (f *File) Find(id string) (*Item, bool) {
	for i := range f.Items {
		if f.Items[i].ID == id {
			return &f.Items[i], true
		}
	}
	return nil, false
}
