package ioutils

import (
	"io"
	"os"
	"sync/atomic"
)

// OpenFile opens a local file for reading and returns its size.
//
// The caller must close the returned reader.
//
// Example:
//
//	rc, size, err := OpenFile("/Users/dj/Documents/Native Instruments/Traktor/collection.nml")
func OpenFile(path string) (io.ReadCloser, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}

	return f, info.Size(), nil
}

// ProgressReader wraps a reader to track how much of it has been consumed.
//
// Use this to monitor large sources by providing an OnUpdate callback
// that receives the bytes read so far and the expected total.
//
// Example:
//
//	pr := &ProgressReader{
//	    Reader: body,
//	    Total:  contentLength,
//	    OnUpdate: func(read, total int64) {
//	        fmt.Printf("%d / %d bytes\n", read, total)
//	    },
//	}
//	parser := nml.NewParser(pr)
type ProgressReader struct {
	// Reader is the underlying reader to read data from.
	Reader io.Reader

	// Total is the expected total bytes, or -1 when unknown.
	Total int64

	// OnUpdate is called after each Read that returned data.
	// Parameters are (bytesRead, totalExpected).
	OnUpdate func(read, total int64)

	read atomic.Int64
}

// Read implements io.Reader, tracking progress and calling OnUpdate.
func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.Reader.Read(p)
	if n > 0 {
		read := pr.read.Add(int64(n))
		if pr.OnUpdate != nil {
			pr.OnUpdate(read, pr.Total)
		}
	}
	return n, err
}

// BytesRead returns the number of bytes read so far. It is safe to call from
// another goroutine.
func (pr *ProgressReader) BytesRead() int64 {
	return pr.read.Load()
}
