/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
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

/*
Package ioutils provides the small set of file and I/O helpers that the
logger and database layers need: path/permission management, a closer
registry for hook shutdown, and a temp-file helper used by the logger
test suite.

# Contents

	Root Package (ioutils)
	├── PathCheckCreate - file/directory creation with permission management
	├── FileProgress     - progress-tracked temp file, used by logger tests
	└── mapCloser        - thread-safe, context-aware manager for multiple io.Closer instances

# PathCheckCreate

PathCheckCreate ensures a path exists with the expected type (file or
directory) and permissions, creating parent directories as needed. It
backs logger/hookfile.go's log-file creation.

	if err := ioutils.PathCheckCreate(false, "/var/app/data", 0644, 0755); err != nil {
	    return fmt.Errorf("data dir: %w", err)
	}

# Error Handling

All functions return errors that can be inspected using standard error
handling patterns; this package never panics.

# Related Packages

  - os: Standard library file operations
  - io: Standard library I/O interfaces
  - filepath: Path manipulation utilities

# Subpackage Overview

  - mapCloser: Thread-safe, context-aware manager for multiple io.Closer instances, used by logger's hook shutdown path
*/
package ioutils
