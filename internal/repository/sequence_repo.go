package repository

import (
	"errors"
	"strconv"
	"strings"

	"jalaram/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository hands out the next counter value for a code prefix.
// The row is locked FOR UPDATE inside the caller's transaction, so two
// concurrent mints of the same prefix serialize instead of racing the way a
// scan-then-increment would.
type SequenceRepository interface {
	// NextTx returns last_value+1 for prefix and persists it. When no row
	// exists yet, seed is consulted for the starting point (typically the
	// max suffix already present among legacy codes).
	NextTx(tx *gorm.DB, prefix string, seed func(tx *gorm.DB) (int64, error)) (int64, error)
}

type sequenceRepo struct{ db *gorm.DB }

func NewSequenceRepository(db *gorm.DB) SequenceRepository { return &sequenceRepo{db: db} }

func (r *sequenceRepo) NextTx(tx *gorm.DB, prefix string, seed func(tx *gorm.DB) (int64, error)) (int64, error) {
	var seq model.CodeSequence
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("prefix = ?", prefix).First(&seq).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		var start int64
		if seed != nil {
			if start, err = seed(tx); err != nil {
				return 0, err
			}
		}
		seq = model.CodeSequence{Prefix: prefix, LastValue: start + 1}
		if err := tx.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.LastValue, nil
	case err != nil:
		return 0, err
	}

	seq.LastValue++
	if err := tx.Model(&model.CodeSequence{}).
		Where("prefix = ?", prefix).
		Update("last_value", seq.LastValue).Error; err != nil {
		return 0, err
	}
	return seq.LastValue, nil
}

// maxSuffix parses the numeric tail after the last '-' of each code and
// returns the maximum. Codes with an unparseable tail are skipped; legacy
// data contains hand-typed codes and minting must not fail on them.
func maxSuffix(codes []string) int64 {
	var max int64
	for _, code := range codes {
		i := strings.LastIndex(code, "-")
		if i < 0 || i == len(code)-1 {
			continue
		}
		n, err := strconv.ParseInt(code[i+1:], 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	return max
}
