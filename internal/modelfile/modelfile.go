// Package modelfile reads and writes trained model artifacts
package modelfile

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"io"
	"os"
	"time"

	"gnss-classifier/internal/dataset"
	"gnss-classifier/internal/model"
)

const magic = "GNSSM"

// FormatVersion of artifacts produced by this package
const FormatVersion uint16 = 1

// Artifact is a trained model plus everything needed to apply it to new
// data: the feature name order, the class names and the fitted scaler.
// Read-only once written.
type Artifact struct {
	FormatVersion uint16
	CreatedAt     time.Time
	Algorithm     string
	Seed          int64
	FeatureNames  []string
	ClassNames    []string
	Scaler        *dataset.Scaler
	Classifier    model.Classifier
}

type Writer struct{}

func NewWriter() *Writer {
	return &Writer{}
}

// WriteFile serializes the artifact: a fixed header followed by the
// gob-encoded scaler and classifier payloads.
func (w *Writer) WriteFile(filename string, a *Artifact) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create model file: %w", err)
	}
	defer file.Close()

	if err := w.writeHeader(file, a); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	if err := writeGob(file, a.Scaler); err != nil {
		return fmt.Errorf("failed to write scaler: %w", err)
	}
	if err := writeGob(file, &a.Classifier); err != nil {
		return fmt.Errorf("failed to write classifier: %w", err)
	}

	return nil
}

func (w *Writer) writeHeader(file *os.File, a *Artifact) error {
	if _, err := file.WriteString(magic); err != nil {
		return err
	}

	if err := binary.Write(file, binary.LittleEndian, FormatVersion); err != nil {
		return err
	}

	createdUnix := a.CreatedAt.Unix()
	createdNano := a.CreatedAt.Nanosecond()
	if err := binary.Write(file, binary.LittleEndian, int64(createdUnix)); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, int32(createdNano)); err != nil {
		return err
	}

	if err := writeString(file, a.Algorithm); err != nil {
		return err
	}

	if err := binary.Write(file, binary.LittleEndian, a.Seed); err != nil {
		return err
	}

	if err := writeStrings(file, a.FeatureNames); err != nil {
		return err
	}
	if err := writeStrings(file, a.ClassNames); err != nil {
		return err
	}

	return nil
}

// ReadFile loads a model artifact and validates its format
func ReadFile(filename string) (*Artifact, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer file.Close()

	buf := make([]byte, len(magic))
	if _, err := file.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to read magic: %w", err)
	}
	if string(buf) != magic {
		return nil, fmt.Errorf("invalid model file format")
	}

	a := &Artifact{}
	if err := binary.Read(file, binary.LittleEndian, &a.FormatVersion); err != nil {
		return nil, err
	}
	if a.FormatVersion != FormatVersion {
		return nil, fmt.Errorf("unsupported model format version %d", a.FormatVersion)
	}

	var createdUnix int64
	var createdNano int32
	if err := binary.Read(file, binary.LittleEndian, &createdUnix); err != nil {
		return nil, err
	}
	if err := binary.Read(file, binary.LittleEndian, &createdNano); err != nil {
		return nil, err
	}
	a.CreatedAt = time.Unix(createdUnix, int64(createdNano)).UTC()

	if a.Algorithm, err = readString(file); err != nil {
		return nil, err
	}
	if err := binary.Read(file, binary.LittleEndian, &a.Seed); err != nil {
		return nil, err
	}
	if a.FeatureNames, err = readStrings(file); err != nil {
		return nil, err
	}
	if a.ClassNames, err = readStrings(file); err != nil {
		return nil, err
	}

	a.Scaler = &dataset.Scaler{}
	if err := readGob(file, a.Scaler); err != nil {
		return nil, fmt.Errorf("failed to read scaler: %w", err)
	}
	if err := readGob(file, &a.Classifier); err != nil {
		return nil, fmt.Errorf("failed to read classifier: %w", err)
	}

	return a, nil
}

func writeString(file *os.File, s string) error {
	b := []byte(s)
	if len(b) > 65535 {
		b = b[:65535]
	}
	if err := binary.Write(file, binary.LittleEndian, uint16(len(b))); err != nil {
		return err
	}
	_, err := file.Write(b)
	return err
}

func readString(file *os.File) (string, error) {
	var n uint16
	if err := binary.Read(file, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	b := make([]byte, n)
	if _, err := file.Read(b); err != nil {
		return "", err
	}
	return string(b), nil
}

func writeStrings(file *os.File, ss []string) error {
	if err := binary.Write(file, binary.LittleEndian, uint16(len(ss))); err != nil {
		return err
	}
	for _, s := range ss {
		if err := writeString(file, s); err != nil {
			return err
		}
	}
	return nil
}

func readStrings(file *os.File) ([]string, error) {
	var n uint16
	if err := binary.Read(file, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	ss := make([]string, n)
	for i := range ss {
		s, err := readString(file)
		if err != nil {
			return nil, err
		}
		ss[i] = s
	}
	return ss, nil
}

func writeGob(file *os.File, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return err
	}
	if err := binary.Write(file, binary.LittleEndian, uint32(buf.Len())); err != nil {
		return err
	}
	_, err := file.Write(buf.Bytes())
	return err
}

func readGob(file *os.File, v interface{}) error {
	var n uint32
	if err := binary.Read(file, binary.LittleEndian, &n); err != nil {
		return err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(file, b); err != nil {
		return err
	}
	return gob.NewDecoder(bytes.NewReader(b)).Decode(v)
}
