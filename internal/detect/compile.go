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
	"regexp"

	"github.com/Masterminds/semver/v3"
	liberr "github.com/sabouaram/lachesis/errors"
)

// Compile pre-compiles every regex and pre-parses every semver bound in def,
// so that Detect never does that work per call. Definitions are immutable
// once compiled; implementations SHOULD cache the result, per spec §4.5.
func Compile(def *Definition) (*Compiled, liberr.Error) {
	if def == nil {
		return nil, ErrorParamEmpty.Error(nil)
	}

	svcRe, err := regexp.Compile(def.Service.Regex)
	if err != nil {
		return nil, ErrorRegexCompile.Error(err)
	}

	c := &Compiled{Def: def, service: svcRe}

	if def.Versions != nil {
		if def.Versions.Semver != nil {
			spec, e := compileSemver(def.Versions.Semver)
			if e != nil {
				return nil, e
			}
			c.semver = spec
		}

		for _, rv := range def.Versions.Regex {
			re, err := regexp.Compile(rv.Regex)
			if err != nil {
				return nil, ErrorRegexCompile.Error(err)
			}
			c.versions = append(c.versions, regexVersion{
				re:          re,
				version:     rv.Version,
				description: rv.Description,
			})
		}
	}

	return c, nil
}

func compileSemver(sv *SemverVersions) (*semverSpec, liberr.Error) {
	anchor, err := regexp.Compile(sv.Regex)
	if err != nil {
		return nil, ErrorRegexCompile.Error(err)
	}

	spec := &semverSpec{anchor: anchor}

	for _, r := range sv.Ranges {
		from, err := semver.NewVersion(r.From)
		if err != nil {
			return nil, ErrorSemverRangeParse.Error(err)
		}
		to, err := semver.NewVersion(r.To)
		if err != nil {
			return nil, ErrorSemverRangeParse.Error(err)
		}
		spec.ranges = append(spec.ranges, semverRange{From: from, To: to, Description: r.Description})
	}

	return spec, nil
}

// CompileAll compiles every definition in order, stopping at the first
// compile error (a configuration error per spec §7, fatal to startup).
func CompileAll(defs []*Definition) ([]*Compiled, liberr.Error) {
	out := make([]*Compiled, 0, len(defs))
	for _, d := range defs {
		c, e := Compile(d)
		if e != nil {
			return nil, e
		}
		out = append(out, c)
	}
	return out, nil
}
