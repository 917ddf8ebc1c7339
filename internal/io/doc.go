// Package ioutils provides byte-source and image utilities.
//
// # Sources
//
// A collection is read either from a local file or from an HTTP body. Both
// are consumed as a stream:
//
//	rc, size, err := ioutils.OpenFile(path)
//	if err != nil {
//	    return err
//	}
//	defer rc.Close()
//
//	pr := &ioutils.ProgressReader{Reader: rc, Total: size}
//	// hand pr to the parser, poll pr.BytesRead() from a ticker
//
// # Image Processing
//
// The ImageService turns cover art into thumbnails:
//
//	svc := ioutils.NewImageService()
//	thumb, _ := svc.Thumbnail(ctx, imageData, 32, 32)
//
// JPEG, PNG, GIF, BMP and WebP inputs are supported.
package ioutils
