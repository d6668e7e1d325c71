package audit

import (
	"errors"
	"fmt"

	"github.com/remiblancher/device-registry/pkg/device"
)

// Logger records device operations to a Writer.
// A nil *Logger discards all events.
type Logger struct {
	w     Writer
	actor *Actor
}

// NewLogger creates a Logger writing to w. A nil w disables auditing.
func NewLogger(w Writer) *Logger {
	if w == nil {
		w = NopWriter{}
	}
	return &Logger{w: w}
}

// Open creates a Logger backed by a file writer at path.
// An empty path returns a Logger that discards events.
func Open(path string) (*Logger, error) {
	if path == "" {
		return NewLogger(nil), nil
	}
	w, err := NewFileWriter(path)
	if err != nil {
		return nil, err
	}
	return NewLogger(w), nil
}

// WithActor returns a Logger that attributes events to actor.
func (l *Logger) WithActor(actor Actor) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{w: l.w, actor: &actor}
}

// Close closes the underlying writer.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return l.w.Close()
}

// MustLog writes an audit event and returns an error suitable for
// failing the parent operation if audit logging fails.
func (l *Logger) MustLog(event *Event) error {
	if l == nil {
		return nil
	}
	if l.actor != nil {
		event.WithActor(*l.actor)
	}
	if err := l.w.Write(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

// LogKeyGenerated logs a key generation attempt. opErr is the outcome of
// the operation; nil means success.
func (l *Logger) LogKeyGenerated(index int, hsm *device.HSM, slot int, opErr error) error {
	event := NewEvent(EventKeyGenerated, resultOf(opErr)).
		WithObject(hsmObject(index, hsm, slot)).
		WithContext(Context{
			Algorithm: hsm.KeyAlgorithm(),
			Reason:    reasonOf(opErr),
		})
	return l.MustLog(event)
}

// LogSign logs a signing attempt. opErr is the outcome of the operation;
// nil means success.
func (l *Logger) LogSign(index int, hsm *device.HSM, slot int, opErr error) error {
	event := NewEvent(EventSign, resultOf(opErr)).
		WithObject(hsmObject(index, hsm, slot)).
		WithContext(Context{
			Algorithm: hsm.KeyAlgorithm(),
			Reason:    reasonOf(opErr),
		})
	return l.MustLog(event)
}

// LogAccessDenied logs an HSM operation refused before reaching a slot,
// e.g. HSM access to a FIDO device.
func (l *Logger) LogAccessDenied(index int, d *device.Device, reason string) error {
	obj := Object{Type: "device", Index: index}
	if d != nil {
		obj.Variant = d.Variant()
	}
	event := NewEvent(EventAccessDenied, ResultFailure).
		WithObject(obj).
		WithContext(Context{Reason: reason})
	return l.MustLog(event)
}

func hsmObject(index int, hsm *device.HSM, slot int) Object {
	return Object{
		Type:    "hsm",
		Index:   index,
		Variant: hsm.Variant().String(),
		Slot:    slot,
	}
}

func resultOf(err error) Result {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}

func reasonOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, device.ErrInvalidSlot):
		return "invalid slot"
	case errors.Is(err, device.ErrKeyNotProvisioned):
		return "key not provisioned"
	}
	return err.Error()
}
