package pairio

import (
	"context"
	"errors"
	"fmt"
	"hash/crc32"
	"time"

	"github.com/alxndrkalinin/copairs"
	"github.com/alxndrkalinin/copairs/blobstore"
	"github.com/alxndrkalinin/copairs/codec"
)

type options struct {
	codec       codec.Codec
	compression Compression
	logger      *copairs.Logger
}

// Option configures Encode and Write.
type Option func(*options)

// WithCodec sets the codec used for the payload. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithCompression sets the payload compression. Default: CompressionZSTD.
func WithCompression(c Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithLogger sets the logger used by Write and Read.
func WithLogger(l *copairs.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = copairs.NoopLogger()
		}
		o.logger = l
	}
}

func newOptions(optFns []Option) options {
	o := options{
		codec:       codec.Default,
		compression: CompressionZSTD,
		logger:      copairs.NoopLogger(),
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}

// Encode serializes res into the export file format.
func Encode(res copairs.Result, optFns ...Option) ([]byte, error) {
	o := newOptions(optFns)
	if len(o.codec.Name()) > codec.MaxNameLen {
		return nil, fmt.Errorf("pairio: codec name %q too long", o.codec.Name())
	}
	if res == nil {
		res = copairs.Result{}
	}

	payload, err := o.codec.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("pairio: encode with %s: %w", o.codec.Name(), err)
	}

	body, used, err := compress(payload, o.compression)
	if err != nil {
		return nil, fmt.Errorf("pairio: compress with %s: %w", o.compression, err)
	}

	h := Header{
		Version:     formatVersion,
		Compression: used,
		Codec:       o.codec.Name(),
		Size:        uint64(len(payload)),
		Checksum:    crc32.Checksum(payload, castagnoli),
	}
	out := appendHeader(make([]byte, 0, fixedHeader+len(h.Codec)+sizeFields+len(body)), h)
	return append(out, body...), nil
}

// Decode parses a file produced by Encode. The codec and compression are
// taken from the header.
func Decode(data []byte) (copairs.Result, error) {
	h, body, err := parseHeader(data)
	if err != nil {
		return nil, err
	}

	c, ok := codec.Lookup(h.Codec)
	if !ok {
		return nil, &FormatError{Reason: fmt.Sprintf("unknown codec %q", h.Codec)}
	}

	payload, err := decompress(body, h.Compression, int(h.Size))
	if err != nil {
		return nil, &FormatError{Reason: "corrupt payload", Err: err}
	}
	if sum := crc32.Checksum(payload, castagnoli); sum != h.Checksum {
		return nil, &FormatError{Reason: fmt.Sprintf("checksum mismatch: %08x != %08x", sum, h.Checksum)}
	}

	var res copairs.Result
	if err := c.Unmarshal(payload, &res); err != nil {
		return nil, &FormatError{Reason: "decode payload", Err: err}
	}
	return res, nil
}

// ReadHeader returns the header of an encoded file without decoding the payload.
func ReadHeader(data []byte) (Header, error) {
	h, _, err := parseHeader(data)
	return h, err
}

// Write encodes res and stores it under name. The blob only becomes visible
// once it has been written completely.
func Write(ctx context.Context, store blobstore.Store, name string, res copairs.Result, optFns ...Option) (err error) {
	o := newOptions(optFns)
	start := time.Now()
	defer func() {
		if err != nil {
			o.logger.ErrorContext(ctx, "pair export failed", "name", name, "error", err)
		}
	}()

	data, err := Encode(res, optFns...)
	if err != nil {
		return err
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("pairio: create %s: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return errors.Join(fmt.Errorf("pairio: write %s: %w", name, err), blobstore.Abort(w))
	}
	if err := w.Sync(); err != nil {
		return errors.Join(fmt.Errorf("pairio: sync %s: %w", name, err), blobstore.Abort(w))
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("pairio: close %s: %w", name, err)
	}

	o.logger.DebugContext(ctx, "pairs exported",
		"name", name,
		"groups", len(res),
		"pairs", res.Len(),
		"bytes", len(data),
		"codec", o.codec.Name(),
		"duration", time.Since(start),
	)
	return nil
}

// Read loads and decodes the export stored under name.
func Read(ctx context.Context, store blobstore.Store, name string) (copairs.Result, error) {
	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, fmt.Errorf("pairio: read %s: %w", name, err)
	}

	res, err := Decode(data)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Name = name
		}
		return nil, err
	}
	return res, nil
}
