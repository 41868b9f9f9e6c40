package debugui

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/drift/ecs"
)

// EntityRow is one line of the entity browser.
type EntityRow struct {
	ID             ecs.EntityId
	ArchetypeID    uint32
	ComponentTypes []string
}

// Sortable columns of the browser table.
const (
	ColumnEntity = iota
	ColumnArchetype
	ColumnComponents
	ColumnComponentCount
)

// EntityBrowser lists live entities in a searchable, sortable, paged table
// and tracks the selected one.
type EntityBrowser struct {
	storage *ecs.Storage

	rows           []EntityRow
	archetypeCount int
	entityCount    int
	sortColumn     int
	sortAscending  bool

	Filter      string
	perPage     int
	currentPage int
	selected    ecs.EntityId
	focus       func() (ecs.EntityId, bool)
}

func NewEntityBrowser(storage *ecs.Storage, perPage int) *EntityBrowser {
	if perPage <= 0 {
		perPage = 50
	}
	return &EntityBrowser{
		storage:        storage,
		archetypeCount: -1,
		sortColumn:     ColumnEntity,
		sortAscending:  true,
		perPage:        perPage,
	}
}

// Selected returns the selected entity, or zero.
func (eb *EntityBrowser) Selected() ecs.EntityId {
	return eb.selected
}

func (eb *EntityBrowser) Select(id ecs.EntityId) {
	eb.selected = id
}

// Focus sets the entity picked by Refresh whenever nothing is selected.
func (eb *EntityBrowser) Focus(focus func() (ecs.EntityId, bool)) {
	eb.focus = focus
}

// Refresh rebuilds the rows when entities or archetypes were added or removed.
// A deleted selection is cleared.
func (eb *EntityBrowser) Refresh() {
	archetypes, entities := len(eb.storage.Archetypes()), eb.storage.EntityCount()
	if archetypes != eb.archetypeCount || entities != eb.entityCount {
		eb.archetypeCount, eb.entityCount = archetypes, entities
		eb.rebuild()
	}
	if eb.selected != 0 && !eb.storage.Alive(eb.selected) {
		eb.selected = 0
	}
	if eb.selected == 0 && eb.focus != nil {
		if id, ok := eb.focus(); ok {
			eb.selected = id
		}
	}
}

func (eb *EntityBrowser) rebuild() {
	eb.rows = eb.rows[:0]
	for _, archetype := range eb.storage.Archetypes() {
		componentTypes := make([]string, len(archetype.Types()))
		for i, t := range archetype.Types() {
			componentTypes[i] = t.String()
		}

		for id := range archetype.Iter() {
			eb.rows = append(eb.rows, EntityRow{
				ID:             id,
				ArchetypeID:    archetype.ID(),
				ComponentTypes: componentTypes,
			})
		}
	}
	eb.sort()
}

// SortBy orders the rows by one of the Column constants.
func (eb *EntityBrowser) SortBy(column int, ascending bool) {
	eb.sortColumn, eb.sortAscending = column, ascending
	eb.sort()
}

func (eb *EntityBrowser) sort() {
	slices.SortStableFunc(eb.rows, func(a, b EntityRow) int {
		var c int
		switch eb.sortColumn {
		case ColumnArchetype:
			c = cmp.Compare(a.ArchetypeID, b.ArchetypeID)
		case ColumnComponents:
			c = strings.Compare(strings.Join(a.ComponentTypes, ","), strings.Join(b.ComponentTypes, ","))
		case ColumnComponentCount:
			c = cmp.Compare(len(a.ComponentTypes), len(b.ComponentTypes))
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		if !eb.sortAscending {
			return -c
		}
		return c
	})
}

// Visible returns the rows matching Filter. The filter is matched case
// insensitively against the entity id, the hex archetype id and the
// component type names.
func (eb *EntityBrowser) Visible() []EntityRow {
	if eb.Filter == "" {
		return eb.rows
	}

	filter := strings.ToLower(eb.Filter)
	visible := make([]EntityRow, 0, len(eb.rows))
	for _, row := range eb.rows {
		if strings.Contains(row.ID.String(), filter) ||
			strings.Contains(fmt.Sprintf("0x%x", row.ArchetypeID), filter) ||
			strings.Contains(strings.ToLower(strings.Join(row.ComponentTypes, " ")), filter) {
			visible = append(visible, row)
		}
	}
	return visible
}

// page returns the slice of rows shown on the current page and the page count.
func (eb *EntityBrowser) page(rows []EntityRow) ([]EntityRow, int) {
	pages := max(1, (len(rows)+eb.perPage-1)/eb.perPage)
	eb.currentPage = min(eb.currentPage, pages-1)
	start := eb.currentPage * eb.perPage
	return rows[start:min(start+eb.perPage, len(rows))], pages
}

func (eb *EntityBrowser) Render() {
	imgui.SetNextWindowPosV(imgui.NewVec2(10, 440), imgui.CondOnce, imgui.NewVec2(0, 0))
	imgui.SetNextWindowSizeV(imgui.NewVec2(500, 260), imgui.CondOnce)
	if !imgui.BeginV("Entity Browser", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	eb.Refresh()

	imgui.InputTextWithHint("##search", "Search...", &eb.Filter, imgui.InputTextFlagsNone, nil)
	imgui.SameLine()
	if imgui.Button("Clear Filter") {
		eb.Filter = ""
	}

	visible := eb.Visible()
	rows, pages := eb.page(visible)

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("EntityTable", 4, tableFlags, imgui.NewVec2(0, -imgui.FrameHeightWithSpacing()), 0) {
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Archetype")
		imgui.TableSetupColumn("Components")
		imgui.TableSetupColumn("Count")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs != nil && sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			eb.SortBy(int(spec.ColumnIndex()), spec.SortDirection() == imgui.SortDirectionAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for _, row := range rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			if imgui.SelectableBoolV(row.ID.String(), eb.selected == row.ID, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0)) {
				eb.selected = row.ID
			}

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("0x%X", row.ArchetypeID))

			imgui.TableNextColumn()
			imgui.Text(strings.Join(row.ComponentTypes, ", "))

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", len(row.ComponentTypes)))
		}

		imgui.EndTable()
	}

	if pages > 1 {
		imgui.Text(fmt.Sprintf("Page %d / %d (%d entities)", eb.currentPage+1, pages, len(visible)))
		imgui.SameLine()
		if imgui.Button("Prev") && eb.currentPage > 0 {
			eb.currentPage--
		}
		imgui.SameLine()
		if imgui.Button("Next") && eb.currentPage < pages-1 {
			eb.currentPage++
		}
	} else {
		imgui.Text(fmt.Sprintf("Total: %d entities", len(visible)))
	}

	imgui.End()
}
