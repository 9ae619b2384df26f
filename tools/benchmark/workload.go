package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/feral-file/ff-smartdial/internal/directory"
	"github.com/feral-file/ff-smartdial/internal/keypad"
)

var (
	firstNames = []string{
		"Ann", "Bob", "Cat", "Dan", "Eve", "Finn", "Gus", "Hana", "Ian", "Jo",
		"Kim", "Lee", "Mia", "Ned", "Olga", "Pia", "Quinn", "Rosa", "Sam", "Tom",
		"Uma", "Vic", "Wes", "Xena", "Yuki", "Zoë", "Ángel", "Chloé", "Søren", "Renée",
	}
	lastNames = []string{
		"Lee", "Stone", "Nguyen", "Garcia", "Smith", "Okafor", "Müller", "Rossi", "Kowalski", "Silva",
		"Tanaka", "Dubois", "Haddad", "Novak", "Brown", "Ivanova", "Costa", "Jensen", "Moreau", "Park",
	}
)

// QueryKind is the kind of a generated query
type QueryKind string

const (
	QueryKindName   QueryKind = "name"
	QueryKindNumber QueryKind = "number"
)

// Query is a generated lookup
type Query struct {
	Kind QueryKind
	Text string
}

// generateContacts creates count synthetic contacts with one to three phone numbers each
func generateContacts(rng *rand.Rand, count int, now int64) []directory.Contact {
	contacts := make([]directory.Contact, 0, count)
	for i := 1; i <= count; i++ {
		c := directory.Contact{
			ID:             int64(i),
			LookupKey:      fmt.Sprintf("bench-%d", i),
			DisplayName:    firstNames[rng.IntN(len(firstNames))] + " " + lastNames[rng.IntN(len(lastNames))],
			Starred:        rng.IntN(20) == 0,
			InVisibleGroup: rng.IntN(10) != 0,
		}

		phones := 1 + rng.IntN(3)
		for j := 0; j < phones; j++ {
			phone := directory.Phone{
				Number:    fmt.Sprintf("(%03d) %03d-%04d", 200+rng.IntN(800), rng.IntN(1000), rng.IntN(10000)),
				IsPrimary: j == 0,
			}
			if rng.IntN(4) == 0 {
				phone.UseCount = rng.IntN(50)
				// used some time in the last 60 days
				phone.LastUsed = now - rng.Int64N(60*24*3600*1000)
			}
			c.Phones = append(c.Phones, phone)
		}
		contacts = append(contacts, c)
	}
	return contacts
}

// generateQueries derives count lookups from prefixes of the generated contacts, so every query has at least one match
func generateQueries(rng *rand.Rand, contacts []directory.Contact, count int) []Query {
	queries := make([]Query, 0, count)
	for len(queries) < count && len(contacts) > 0 {
		c := contacts[rng.IntN(len(contacts))]

		if rng.IntN(2) == 0 {
			prefixes := keypad.NamePrefixes(c.DisplayName)
			if len(prefixes) > 0 {
				queries = append(queries, Query{Kind: QueryKindName, Text: prefixes[rng.IntN(len(prefixes))]})
			}
			continue
		}

		phone := c.Phones[rng.IntN(len(c.Phones))]
		prefixes := keypad.NumberPrefixes(phone.Number)
		if len(prefixes) > 0 {
			queries = append(queries, Query{Kind: QueryKindNumber, Text: prefixes[rng.IntN(len(prefixes))]})
		}
	}
	return queries
}
