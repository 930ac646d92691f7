package mealplan

import "time"

/* =================================================================================
								EDIT / UNDO
	Edits are recorded as a stack of history entries on the item itself.
	An entry snapshots only the previous name and macros, so undo restores
	those two fields and leaves everything else as the last edit wrote it.
=================================================================================*/

// ApplyEdit overwrites item's content with the regenerated fields and pushes
// a history entry recording what the edit replaced. Identity fields (ID,
// Kind, Type) are never taken from the regenerated item.
func ApplyEdit(item *PlanItem, instruction string, regenerated *PlanItem, editedAt time.Time) {
	item.EditHistory = append(item.EditHistory, EditHistoryEntry{
		EditedAt:       editedAt.UTC(),
		Instruction:    instruction,
		PreviousName:   item.Name,
		PreviousMacros: item.Macros,
	})

	item.Name = regenerated.Name
	item.Ingredients = regenerated.Ingredients
	item.Instructions = regenerated.Instructions
	item.Macros = regenerated.Macros
	item.NutritionalReasoning = regenerated.NutritionalReasoning
	item.ScientificSources = regenerated.ScientificSources
	item.PrepTimeMinutes = regenerated.PrepTimeMinutes

	if item.Kind == KindSnack {
		item.Portability = regenerated.Portability
		item.IdealTiming = regenerated.IdealTiming
	}
}

// UndoLastEdit pops the most recent history entry and restores the name and
// macros it recorded. Returns ErrNoEditToUndo when the history is empty.
func UndoLastEdit(item *PlanItem) error {
	if len(item.EditHistory) == 0 {
		return ErrNoEditToUndo
	}

	last := item.EditHistory[len(item.EditHistory)-1]
	item.EditHistory = item.EditHistory[:len(item.EditHistory)-1]
	item.Name = last.PreviousName
	item.Macros = last.PreviousMacros
	return nil
}
