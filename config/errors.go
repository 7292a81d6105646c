/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
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

package config

import (
	"fmt"

	liberr "github.com/sabouaram/lachesis/errors"
)

// Error codes for the config package.
// These errors cover CLI flag parsing, dataset/definition loading and
// validation failures that must be surfaced to main before a run starts.
const (
	// ErrorParamEmpty indicates that required parameters were not provided.
	ErrorParamEmpty liberr.CodeError = iota + liberr.MinPkgConfig

	// ErrorFlagBind indicates that a CLI flag could not be bound to viper.
	ErrorFlagBind

	// ErrorDatasetMissing indicates that no dataset file was given and no
	// subnet was given either; at least one target source is required.
	ErrorDatasetMissing

	// ErrorDatasetOpen indicates the dataset file could not be opened or read.
	ErrorDatasetOpen

	// ErrorDatasetDecode indicates the dataset file content could not be
	// decoded into the expected record shape.
	ErrorDatasetDecode

	// ErrorDefinitionResolve indicates a definition id or path given via
	// --def or --exclude-def could not be resolved to a readable file.
	ErrorDefinitionResolve

	// ErrorDefinitionDecode indicates a definition file could not be
	// decoded as JSON.
	ErrorDefinitionDecode

	// ErrorDefinitionValidate indicates a definition file failed struct
	// validation (malformed regex, semver bounds, unknown protocol, ...).
	ErrorDefinitionValidate

	// ErrorSubnetParse indicates a --subnet value is not a valid CIDR.
	ErrorSubnetParse
)

func init() {
	if liberr.ExistInMapMessage(ErrorParamEmpty) {
		panic(fmt.Errorf("error code collision with package lachesis/config"))
	}
	liberr.RegisterIdFctMessage(ErrorParamEmpty, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case ErrorParamEmpty:
		return "given parameters is empty"
	case ErrorFlagBind:
		return "cannot bind cli flag to configuration"
	case ErrorDatasetMissing:
		return "no dataset file and no subnet given, at least one target source is required"
	case ErrorDatasetOpen:
		return "cannot open dataset file"
	case ErrorDatasetDecode:
		return "cannot decode dataset file content"
	case ErrorDefinitionResolve:
		return "cannot resolve definition id or path to a readable file"
	case ErrorDefinitionDecode:
		return "cannot decode definition file as json"
	case ErrorDefinitionValidate:
		return "definition file failed validation"
	case ErrorSubnetParse:
		return "invalid subnet CIDR"
	}

	return liberr.NullMessage
}
