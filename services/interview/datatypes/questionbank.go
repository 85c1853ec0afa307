// Copyright (C) 2026 MockHire (engineering@mockhire.dev)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package datatypes

import "time"

// BankEntryStatus is the soft-delete tombstone for a bank entry.
type BankEntryStatus string

const (
	// BankEntryActive entries appear in candidate queries.
	BankEntryActive BankEntryStatus = "ACTIVE"

	// BankEntryDeleted entries are tombstoned: excluded from new
	// candidate queries but still retrievable by id, so historical
	// session audits keep working. There is no hard-delete path.
	BankEntryDeleted BankEntryStatus = "DELETED"
)

// QuestionBankEntry is a static question in the catalog.
type QuestionBankEntry struct {
	// ID is the unique entry identifier.
	ID string `json:"id"`

	// Text is the question text.
	Text string `json:"text"`

	// Tags classify the entry for policy-driven candidate selection.
	Tags []string `json:"tags,omitempty"`

	// Status is ACTIVE or DELETED.
	Status BankEntryStatus `json:"status"`

	// CreatedAt is when the entry was added.
	CreatedAt time.Time `json:"created_at"`

	// DeletedAt is when the entry was tombstoned, if ever.
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// Clone returns a deep copy of the entry.
func (e *QuestionBankEntry) Clone() *QuestionBankEntry {
	cp := *e
	cp.Tags = cloneStrings(e.Tags)
	if e.DeletedAt != nil {
		t := *e.DeletedAt
		cp.DeletedAt = &t
	}
	return &cp
}
