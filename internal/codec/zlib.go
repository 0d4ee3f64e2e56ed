package codec

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
)

// CompressionError means report content could not be compressed for storage.
type CompressionError struct {
	Cause error
}

func (e *CompressionError) Error() string {
	return fmt.Sprintf("failed to compress report content: %v", e.Cause)
}

func (e *CompressionError) Unwrap() error { return e.Cause }

// DecompressionError means stored content could not be restored, typically
// because the stored bytes are corrupt or were never valid zlib data.
type DecompressionError struct {
	Cause error
}

func (e *DecompressionError) Error() string {
	return fmt.Sprintf("failed to decompress report content: %v", e.Cause)
}

func (e *DecompressionError) Unwrap() error { return e.Cause }

// Codec compresses rendered report content before storage and restores it
// byte for byte on retrieval.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Zlib is the storage codec, tuned for maximum compression.
type Zlib struct{}

func NewZlib() *Zlib {
	return &Zlib{}
}

func (z *Zlib) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, &CompressionError{Cause: err}
	}

	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, &CompressionError{Cause: err}
	}
	if err := w.Close(); err != nil {
		return nil, &CompressionError{Cause: err}
	}

	return buf.Bytes(), nil
}

func (z *Zlib) Decompress(data []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, &DecompressionError{Cause: err}
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, &DecompressionError{Cause: err}
	}

	return out, nil
}
