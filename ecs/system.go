package ecs

import (
	"reflect"
	"runtime"
	"strings"
)

// System represents a behavior that operates on entities with specific components.
// User-defined systems can include Query and Singleton fields, which the
// Scheduler initializes, as well as custom state that persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to the System interface. Handy for
// one-shot startup work such as spawning the initial scene.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) {
	f(frame)
}

// UpdateFrame is passed to every system during one scheduler pass.
type UpdateFrame struct {
	DeltaTime float64
	Frame     int64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, frame int64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Frame:     frame,
		Commands:  newCommands(),
		Storage:   storage,
	}
}

// binder is implemented by Query and Singleton fields.
type binder interface {
	Init(storage *Storage)
}

// bindFields calls Init on every exported Query/Singleton field of a system struct.
func bindFields(system System, storage *Storage) {
	v := reflect.ValueOf(system)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return
	}
	v = v.Elem()

	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() || field.Kind() != reflect.Struct {
			continue
		}
		if b, ok := field.Addr().Interface().(binder); ok {
			b.Init(storage)
		}
	}
}

func systemName(system System) string {
	if fn, ok := system.(SystemFunc); ok {
		name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		return name
	}

	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
