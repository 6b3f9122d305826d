// Package ordering keeps sibling rows (columns of a board, tasks of a column)
// sorted by an integer order key stored in the "position" column.
//
// Keys are spaced by Gap so an item can usually be placed between two
// neighbours without touching them. When two neighbours leave no free integer
// between them the destination siblings are renumbered first.
//
// Every function expects to run inside the caller's transaction with the
// parent row already locked.
package ordering

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Gap is the distance between consecutive keys after an append or a renumber.
const Gap = 10

var (
	ErrItemNotFound   = errors.New("item not found")
	ErrAnchorNotFound = errors.New("anchor not found in destination")
	ErrAnchorIsItem   = errors.New("item cannot be placed relative to itself")
)

// Sequence names the table holding the siblings and its parent column.
type Sequence struct {
	Table  string
	Parent string
}

var (
	Columns = Sequence{Table: "columns", Parent: "board_id"}
	Tasks   = Sequence{Table: "tasks", Parent: "column_id"}
)

// Anchor positions a moved item. BeforeID wins when both are set; with
// neither set the item goes to the end.
type Anchor struct {
	BeforeID *uint64
	AfterID  *uint64
}

type sibling struct {
	ID       uint64
	Position int
}

// Midpoint returns floor((lo+hi)/2) for non-negative keys.
func Midpoint(lo, hi int) int {
	return lo + (hi-lo)/2
}

// HasGap reports whether a key strictly between lo and hi exists.
func HasGap(lo, hi int) bool {
	return hi-lo > 1
}

// AfterLast is the key appended after the current maximum.
func AfterLast(max int) int {
	return max + Gap
}

// OpenEnd is the virtual upper neighbour used when an after-anchor is last.
func OpenEnd(after int) int {
	return after + 2*Gap
}

func (s Sequence) siblings(tx *gorm.DB, parentID uint64) *gorm.DB {
	return tx.Table(s.Table).Where(s.Parent+" = ?", parentID)
}

// Next returns the key for an item appended under parentID, skipping the
// given ids.
func (s Sequence) Next(tx *gorm.DB, parentID uint64, exclude ...uint64) (int, error) {
	query := s.siblings(tx, parentID)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}

	var max int
	if err := query.Select("COALESCE(MAX(position), 0)").Row().Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to read last %s position: %w", s.Table, err)
	}
	return AfterLast(max), nil
}

// Reorder assigns (i+1)*Gap to the i-th id. Repeated ids keep their first
// slot and ids that do not belong to parentID are skipped.
func (s Sequence) Reorder(tx *gorm.DB, parentID uint64, ids []uint64) error {
	for i, id := range unique(ids) {
		err := s.siblings(tx, parentID).
			Where("id = ?", id).
			Update("position", (i+1)*Gap).Error
		if err != nil {
			return fmt.Errorf("failed to reorder %s: %w", s.Table, err)
		}
	}
	return nil
}

// Renumber rewrites the keys under parentID to Gap, 2*Gap, ... keeping the
// current (position, id) order. Excluded ids are left untouched.
func (s Sequence) Renumber(tx *gorm.DB, parentID uint64, exclude ...uint64) error {
	query := s.siblings(tx, parentID)
	if len(exclude) > 0 {
		query = query.Where("id NOT IN ?", exclude)
	}

	var rows []sibling
	if err := query.Select("id, position").Order("position ASC").Order("id ASC").Scan(&rows).Error; err != nil {
		return fmt.Errorf("failed to load %s for renumbering: %w", s.Table, err)
	}

	for i, row := range rows {
		want := (i + 1) * Gap
		if row.Position == want {
			continue
		}
		if err := tx.Table(s.Table).Where("id = ?", row.ID).Update("position", want).Error; err != nil {
			return fmt.Errorf("failed to renumber %s: %w", s.Table, err)
		}
	}
	return nil
}

// Move places itemID under destParentID according to anchor and writes the
// parent pointer and the key in a single update. It returns the new key.
func (s Sequence) Move(tx *gorm.DB, itemID, destParentID uint64, anchor Anchor) (int, error) {
	if (anchor.BeforeID != nil && *anchor.BeforeID == itemID) ||
		(anchor.BeforeID == nil && anchor.AfterID != nil && *anchor.AfterID == itemID) {
		return 0, ErrAnchorIsItem
	}

	position, ok, err := s.place(tx, itemID, destParentID, anchor)
	if err != nil {
		return 0, err
	}
	if !ok {
		if err := s.Renumber(tx, destParentID, itemID); err != nil {
			return 0, err
		}
		if position, _, err = s.place(tx, itemID, destParentID, anchor); err != nil {
			return 0, err
		}
	}

	result := tx.Table(s.Table).Where("id = ?", itemID).Updates(map[string]interface{}{
		s.Parent:   destParentID,
		"position": position,
	})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to move %s: %w", s.Table, result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrItemNotFound
	}
	return position, nil
}

// place computes the key for itemID. ok is false when the neighbours leave no
// free key and the destination needs a renumber first.
func (s Sequence) place(tx *gorm.DB, itemID, destParentID uint64, anchor Anchor) (int, bool, error) {
	switch {
	case anchor.BeforeID != nil:
		hi, err := s.anchorPosition(tx, destParentID, *anchor.BeforeID)
		if err != nil {
			return 0, false, err
		}
		lo := 0
		prev, found, err := s.neighbour(tx, destParentID, itemID,
			"(position < ? OR (position = ? AND id < ?))", []interface{}{hi, hi, *anchor.BeforeID},
			"position DESC, id DESC")
		if err != nil {
			return 0, false, err
		}
		if found {
			lo = prev.Position
		}
		return Midpoint(lo, hi), HasGap(lo, hi), nil

	case anchor.AfterID != nil:
		lo, err := s.anchorPosition(tx, destParentID, *anchor.AfterID)
		if err != nil {
			return 0, false, err
		}
		hi := OpenEnd(lo)
		next, found, err := s.neighbour(tx, destParentID, itemID,
			"(position > ? OR (position = ? AND id > ?))", []interface{}{lo, lo, *anchor.AfterID},
			"position ASC, id ASC")
		if err != nil {
			return 0, false, err
		}
		if found {
			hi = next.Position
		}
		return Midpoint(lo, hi), HasGap(lo, hi), nil

	default:
		position, err := s.Next(tx, destParentID, itemID)
		return position, true, err
	}
}

func (s Sequence) anchorPosition(tx *gorm.DB, parentID, anchorID uint64) (int, error) {
	var rows []sibling
	err := s.siblings(tx, parentID).
		Select("id, position").
		Where("id = ?", anchorID).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load %s anchor: %w", s.Table, err)
	}
	if len(rows) == 0 {
		return 0, ErrAnchorNotFound
	}
	return rows[0].Position, nil
}

func (s Sequence) neighbour(tx *gorm.DB, parentID, itemID uint64, cond string, args []interface{}, order string) (sibling, bool, error) {
	var rows []sibling
	err := s.siblings(tx, parentID).
		Select("id, position").
		Where("id <> ?", itemID).
		Where(cond, args...).
		Order(order).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return sibling{}, false, fmt.Errorf("failed to load %s neighbour: %w", s.Table, err)
	}
	if len(rows) == 0 {
		return sibling{}, false, nil
	}
	return rows[0], true, nil
}

func unique(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
