// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package uuid generates account identifiers.
//
// Values are UUID version 7, so primary keys on users.account sort by
// creation time and B-tree inserts stay append-mostly.
package uuid

import "github.com/google/uuid"

// New returns a new UUIDv7 string. It panics if the entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate v7: " + err.Error())
	}
	return id.String()
}

