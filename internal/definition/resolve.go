/*
 * MIT License
 *
 * Copyright (c) 2024 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package definition loads and validates definition files: the declarative
// rule-sets the Detector applies to response blobs. Definitions are read
// once at startup and handed to the orchestrator as an immutable, shared
// slice of detect.Compiled.
package definition

import (
	"os"
	"path/filepath"
)

// DefinitionsDir is the directory definition identifiers are resolved
// against, relative to the working directory.
const DefinitionsDir = "resources/definitions"

// Resolve implements the definition-identifier resolution rule of spec §6:
// search "resources/definitions/{id}.json", then "resources/definitions/{id}",
// then the literal path as given. Returns the first candidate that exists.
func Resolve(id string) (string, bool) {
	candidates := []string{
		filepath.Join(DefinitionsDir, id+".json"),
		filepath.Join(DefinitionsDir, id),
		id,
	}

	for _, c := range candidates {
		if fi, err := os.Stat(c); err == nil && !fi.IsDir() {
			return c, true
		}
	}

	return "", false
}
