// Copyright (c) 2026 ircwire contributors
// released under the MIT license

package client

import (
	"errors"

	"golang.org/x/text/secure/precis"
)

var (
	errCouldNotStabilize = errors.New("Could not stabilize string while casefolding")
)

// Each pass of PRECIS casefolding is a composition of idempotent operations,
// but not idempotent itself, so repeat it until it converges (at most four
// times, as RFC 8264 section 7 recommends).
func iterateFolding(profile *precis.Profile, oldStr string) (str string, err error) {
	str = oldStr
	for i := 0; i < 4; i++ {
		str, err = profile.CompareKey(str)
		if err != nil {
			return "", err
		}
		if oldStr == str {
			break
		}
		oldStr = str
	}
	if oldStr != str {
		return "", errCouldNotStabilize
	}
	return str, nil
}

// Casefold returns the rfc8265 casefolded form of a nickname.
func Casefold(str string) (string, error) {
	return iterateFolding(precis.UsernameCaseMapped, str)
}

// nicksEqual compares nicknames the way the server does. Names that
// can't be casefolded only match exactly.
func nicksEqual(a, b string) bool {
	if a == b {
		return true
	}
	foldedA, errA := Casefold(a)
	foldedB, errB := Casefold(b)
	return errA == nil && errB == nil && foldedA == foldedB
}
