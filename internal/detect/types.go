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

// Package detect applies a library of definitions to a raw response blob
// and emits structured service/version findings. It is a pure, definition-
// order-preserving matcher: detect(response, defs) always produces the same
// findings in the same order for the same inputs.
package detect

import (
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// Protocol names the two probe families a Definition can target.
type Protocol string

const (
	ProtocolHTTPS      Protocol = "http/s"
	ProtocolTCPCustom  Protocol = "tcp/custom"
)

// Options carries the per-definition probe parameters.
type Options struct {
	Ports []uint16 `json:"ports" validate:"required,min=1"`
	// Message is the raw payload written by the TCP-custom prober. Required
	// when Protocol == tcp/custom.
	Message string `json:"message,omitempty"`
	// Timeout, when true, marks this definition's ports as expected to be
	// slow; the orchestrator does not special-case it beyond documenting
	// intent, since the shared adaptive timeout already governs every port.
	Timeout bool `json:"timeout,omitempty"`
}

// Service is the base regex match that identifies a running service.
type Service struct {
	Regex string `json:"regex" validate:"required"`
	Log   bool   `json:"log"`
}

// Range is one semver bracket: version v matches iff From <= v <= To.
type Range struct {
	From        string `json:"from" validate:"required"`
	To          string `json:"to" validate:"required"`
	Description string `json:"description"`
}

// SemverVersions anchors a version-bearing substring and brackets it into
// named ranges.
type SemverVersions struct {
	Regex  string  `json:"regex" validate:"required"`
	Ranges []Range `json:"ranges" validate:"required,min=1,dive"`
}

// RegexVersion matches a literal, pre-known version by regex alone, with
// no semver parsing involved.
type RegexVersion struct {
	Regex       string `json:"regex" validate:"required"`
	Version     string `json:"version" validate:"required"`
	Description string `json:"description"`
}

// Versions groups the two (independent, optionally both present) version
// extraction strategies a Definition may declare.
type Versions struct {
	Semver *SemverVersions `json:"semver,omitempty"`
	Regex  []RegexVersion  `json:"regex,omitempty" validate:"omitempty,dive"`
}

// Definition is one entry of a definition file: the declarative rule-set
// that identifies a service by matching response content and optionally
// extracting a version. Definitions are loaded once, never mutated, and
// shared read-only by every task for the run's lifetime.
type Definition struct {
	Name     string    `json:"name" validate:"required"`
	Protocol Protocol  `json:"protocol" validate:"required,oneof=http/s tcp/custom"`
	Options  Options   `json:"options" validate:"required"`
	Service  Service    `json:"service" validate:"required"`
	Versions *Versions `json:"versions,omitempty"`
}

// Response is a single finding emitted by Detect: a (service, version,
// description) tuple. Version and Description are empty for a bare
// service-presence finding.
type Response struct {
	Service     string
	Version     string
	Description string
}

// semverRange is a Range with its bounds pre-parsed, built once at
// definition-load time so Detect never re-parses a range per call.
type semverRange struct {
	From        *semver.Version
	To          *semver.Version
	Description string
}

// regexVersion is a RegexVersion with its regex pre-compiled.
type regexVersion struct {
	re          *regexp.Regexp
	version     string
	description string
}

// semverSpec is the pre-compiled form of SemverVersions.
type semverSpec struct {
	anchor *regexp.Regexp
	ranges []semverRange
}

// Compiled is a Definition with every regex pre-compiled and every semver
// bound pre-parsed. Build once via Compile, share by reference across every
// detect task in the run, matching the Lifecycles note in the data model:
// "Definitions are loaded once at startup, immutable thereafter."
type Compiled struct {
	Def      *Definition
	service  *regexp.Regexp
	semver   *semverSpec
	versions []regexVersion
}
