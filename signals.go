package ferry

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for encode events.
var (
	SignalEncodeStart         = capitan.NewSignal("ferry.encode.start", "Encode operation beginning")
	SignalEncodeComplete      = capitan.NewSignal("ferry.encode.complete", "Encode operation finished")
	SignalFingerprintComplete = capitan.NewSignal("ferry.fingerprint.complete", "Fingerprint operation finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeyRootKind    = capitan.NewStringKey("root_kind")
	KeyAlgorithm   = capitan.NewStringKey("algorithm")
	KeySize        = capitan.NewIntKey("size")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitEncodeStart emits an event when an encode begins.
func emitEncodeStart(ctx context.Context, contentType string, root Kind) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyContentType.Field(contentType),
		KeyRootKind.Field(root.String()),
	)
}

// emitEncodeComplete emits an event when an encode finishes.
func emitEncodeComplete(ctx context.Context, contentType string, root Kind, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeyRootKind.Field(root.String()),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitFingerprintComplete emits an event when a fingerprint finishes.
func emitFingerprintComplete(ctx context.Context, algo HashAlgo, root Kind, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyAlgorithm.Field(string(algo)),
		KeyRootKind.Field(root.String()),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalFingerprintComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalFingerprintComplete, fields...)
	}
}
