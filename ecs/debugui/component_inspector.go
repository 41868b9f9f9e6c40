package debugui

import (
	"fmt"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/drift/ecs"
)

// ComponentInspector shows every component of one entity and lets numeric,
// boolean and string fields be edited in place. Edits go straight through the
// component pointer, so they are visible to systems on the next frame.
type ComponentInspector struct {
	storage *ecs.Storage
}

func NewComponentInspector(storage *ecs.Storage) *ComponentInspector {
	return &ComponentInspector{storage: storage}
}

// Components returns the live component pointers of id in archetype order,
// or nil when the entity is gone.
func (ci *ComponentInspector) Components(id ecs.EntityId) []any {
	if !ci.storage.Alive(id) {
		return nil
	}
	archetype := ci.storage.Archetype(id.ArchetypeId())
	if archetype == nil {
		return nil
	}

	components := make([]any, 0, len(archetype.Types()))
	for _, compType := range archetype.Types() {
		if component := ci.storage.GetComponent(id, compType); component != nil {
			components = append(components, component)
		}
	}
	return components
}

func (ci *ComponentInspector) Render(selected ecs.EntityId) {
	imgui.SetNextWindowPosV(imgui.NewVec2(360, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(320, 300), imgui.CondOnce)
	if !imgui.BeginV("Component Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	if selected == 0 {
		imgui.Text("No entity selected")
		imgui.End()
		return
	}

	components := ci.Components(selected)
	if components == nil {
		imgui.Text(fmt.Sprintf("Entity %s no longer exists", selected))
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("Entity: %s", selected))
	imgui.Text(fmt.Sprintf("Archetype: 0x%X", selected.ArchetypeId()))
	imgui.Separator()

	for _, component := range components {
		val := reflect.ValueOf(component).Elem()
		name := val.Type().String()
		if len(globalReflectionCache.Fields(val.Type())) == 0 {
			imgui.BulletText(name)
			continue
		}
		if imgui.TreeNodeExStrV(name, imgui.TreeNodeFlagsDefaultOpen) {
			ci.renderStruct(name, val)
			imgui.TreePop()
		}
	}

	imgui.End()
}

func (ci *ComponentInspector) renderStruct(path string, val reflect.Value) {
	for _, field := range globalReflectionCache.Fields(val.Type()) {
		fv := val.Field(field.Index)
		if field.IsPointer && fv.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", field.Name))
			continue
		}
		ci.renderValue(field.Name, path+"."+field.Name, fieldValue(val, field))
	}
}

func (ci *ComponentInspector) renderValue(name, path string, val reflect.Value) {
	id := "##" + path

	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		v := int32(val.Int())
		ci.label(name)
		if imgui.InputInt(id, &v) {
			assign(val, int64(v))
		}

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		v := int32(val.Uint())
		ci.label(name)
		if imgui.InputInt(id, &v) {
			assign(val, int64(v))
		}

	case reflect.Float32:
		v := float32(val.Float())
		ci.label(name)
		if imgui.InputFloat(id, &v) {
			assign(val, float64(v))
		}

	case reflect.Float64:
		v := val.Float()
		ci.label(name)
		if imgui.InputDouble(id, &v) {
			assign(val, v)
		}

	case reflect.Bool:
		v := val.Bool()
		if imgui.Checkbox(name+id, &v) {
			assign(val, v)
		}

	case reflect.String:
		v := val.String()
		ci.label(name)
		if imgui.InputTextWithHint(id, "", &v, imgui.InputTextFlagsNone, nil) {
			assign(val, v)
		}

	case reflect.Struct:
		if imgui.TreeNodeStr(name + id) {
			ci.renderStruct(path, val)
			imgui.TreePop()
		}

	case reflect.Array:
		if imgui.TreeNodeExStrV(name+id, imgui.TreeNodeFlagsDefaultOpen) {
			n := val.Len()
			for i := 0; i < n; i++ {
				label := elementLabel(i, n)
				ci.renderValue(label, fmt.Sprintf("%s[%d]", path, i), val.Index(i))
			}
			imgui.TreePop()
		}

	case reflect.Pointer:
		if val.IsNil() {
			imgui.Text(fmt.Sprintf("%s: nil", name))
			return
		}
		ci.renderValue(name, path, val.Elem())

	default:
		imgui.Text(fmt.Sprintf("%s: %s", name, summary(val)))
	}
}

func (ci *ComponentInspector) label(name string) {
	imgui.Text(name + ":")
	imgui.SameLine()
	imgui.SetNextItemWidth(150)
}

// SpawnEntityInspector attaches an entity browser and a component inspector
// sharing one selection as a single ImguiItem entity.
func SpawnEntityInspector(storage *ecs.Storage, perPage int) *EntityBrowser {
	browser := NewEntityBrowser(storage, perPage)
	inspector := NewComponentInspector(storage)
	storage.Spawn(ImguiItem{
		Render: func() {
			browser.Render()
			inspector.Render(browser.Selected())
		},
	})
	return browser
}
