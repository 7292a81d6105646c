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

package definition

import (
	"encoding/json"
	"fmt"
	"os"

	libval "github.com/go-playground/validator/v10"
	liberr "github.com/sabouaram/lachesis/errors"

	"github.com/sabouaram/lachesis/internal/detect"
)

var validate = libval.New()

// LoadFile decodes id's resolved file as a JSON array of detect.Definition,
// struct-validates every entry, then cross-validates the tcp/custom
// ⇒ options.message invariant and compiles every regex and semver bound by
// calling detect.Compile. A definition file that fails any of these is a
// configuration error: fatal, reported to stderr, exit 1, per spec §7.
func LoadFile(path string) ([]*detect.Definition, liberr.Error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrorOpen.Error(err)
	}

	var defs []*detect.Definition
	if err = json.Unmarshal(raw, &defs); err != nil {
		return nil, ErrorDecode.Error(err)
	}

	for _, d := range defs {
		if err = validate.Struct(d); err != nil {
			return nil, ErrorValidate.Error(err)
		}

		if d.Protocol == detect.ProtocolTCPCustom && d.Options.Message == "" {
			return nil, ErrorValidate.Error(fmt.Errorf("definition %q: protocol tcp/custom requires options.message", d.Name))
		}

		if _, e := detect.Compile(d); e != nil {
			return nil, e
		}
	}

	return defs, nil
}

// LoadSet resolves and loads every id in ids (spec §6 --def, repeatable),
// skipping, before resolution, any id that also appears as given in
// excludeIDs (--exclude-def).
func LoadSet(ids []string, excludeIDs []string) ([]*detect.Definition, liberr.Error) {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}

	var out []*detect.Definition
	for _, id := range ids {
		if excluded[id] {
			continue
		}

		path, ok := Resolve(id)
		if !ok {
			return nil, ErrorNotFound.Error(fmt.Errorf("definition %q", id))
		}

		defs, err := LoadFile(path)
		if err != nil {
			return nil, err
		}

		out = append(out, defs...)
	}

	return out, nil
}
