package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"

	"github.com/rakeshthota234/Online-Retail-Application/internal/retail"
)

// classify turns SQLite constraint failures into *retail.Error. Any other
// error is returned unchanged.
func classify(op, table string, err error) error {
	if err == nil {
		return nil
	}
	var se sqlite3.Error
	if !errors.As(err, &se) || se.Code != sqlite3.ErrConstraint {
		return err
	}
	return retail.NewConstraintError(op, table, constraintKind(se.ExtendedCode), err)
}

func constraintKind(code sqlite3.ErrNoExtended) retail.ConstraintKind {
	switch code {
	case sqlite3.ErrConstraintPrimaryKey:
		return retail.ConstraintPrimaryKey
	case sqlite3.ErrConstraintUnique:
		return retail.ConstraintUnique
	case sqlite3.ErrConstraintForeignKey:
		return retail.ConstraintForeignKey
	case sqlite3.ErrConstraintCheck:
		return retail.ConstraintCheck
	case sqlite3.ErrConstraintNotNull:
		return retail.ConstraintNotNull
	default:
		return retail.ConstraintOther
	}
}
