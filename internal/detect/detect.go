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

package detect

import (
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Detect applies every compiled definition, in order, to response and
// returns the findings it produces. detect is a pure function: identical
// (response, defs) always yields an identical, identically-ordered result.
//
// Within one definition, the base service finding (if logged) precedes any
// version findings; semver-range findings precede regex-version findings;
// ranges and regex versions are each emitted in their declared order.
func Detect(response string, defs []*Compiled) []Response {
	var out []Response

	for _, c := range defs {
		loc := c.service.FindStringIndex(response)
		if loc == nil {
			continue
		}

		if c.Def.Service.Log {
			out = append(out, Response{Service: c.Def.Name})
		}

		if c.semver != nil {
			// The semver anchor regex is compiled and searched, per the
			// definition file's declared intent, but its capture groups are
			// not used for extraction: the byte-walk below is authoritative.
			_ = c.semver.anchor.FindStringIndex(response)

			if raw := walkVersion(response, loc[1]); raw != "" {
				if v, err := semver.NewVersion(normalizeSemver(raw)); err == nil {
					for _, r := range c.semver.ranges {
						if !v.LessThan(r.From) && !v.GreaterThan(r.To) {
							out = append(out, Response{
								Service:     c.Def.Name,
								Version:     v.String(),
								Description: r.Description,
							})
						}
					}
				}
				// Parse failure: no version finding is emitted, and the failure
				// is not logged or reported to the caller.
			}
		}

		for _, rv := range c.versions {
			if rv.re.MatchString(response) {
				out = append(out, Response{
					Service:     c.Def.Name,
					Version:     rv.version,
					Description: rv.description,
				})
			}
		}
	}

	return out
}

// walkVersion accumulates bytes starting at start until the first '"' byte,
// mirroring the reference byte-walk: it does not validate content, it only
// stops at the delimiter. Returns "" if start is out of range.
func walkVersion(s string, start int) string {
	if start < 0 || start >= len(s) {
		return ""
	}

	end := start
	for end < len(s) && s[end] != '"' {
		end++
	}

	return s[start:end]
}

// normalizeSemver appends ".0" to a version with fewer than two dots, so
// that "4.6" parses the same as "4.6.0". An already three-component version
// is returned unchanged; this makes normalization idempotent.
func normalizeSemver(v string) string {
	if strings.Count(v, ".") < 2 {
		return v + ".0"
	}
	return v
}
