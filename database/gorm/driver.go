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

package gorm

import (
	"strings"

	drvpsq "gorm.io/driver/postgres"
	drvsql "gorm.io/driver/sqlite"
	gormdb "gorm.io/gorm"
)

// Only sqlite and postgres are wired: sqlite for a zero-dependency local
// run, postgres for the durable deployment the Sink is actually sized for.
const (
	DriverNone       = ""
	DriverPostgreSQL = "psql"
	DriverSQLite     = "sqlite"
)

type Driver string

func DriverFromString(drv string) Driver {
	switch strings.ToLower(drv) {

	case strings.ToLower(DriverPostgreSQL):
		return DriverPostgreSQL

	case strings.ToLower(DriverSQLite):
		return DriverSQLite

	default:
		return DriverNone
	}
}

func (d Driver) String() string {
	return string(d)
}

func (d Driver) Dialector(dsn string) gormdb.Dialector {
	switch d {

	case DriverPostgreSQL:
		return drvpsq.Open(dsn)

	case DriverSQLite:
		return drvsql.Open(dsn)

	default:
		return nil
	}
}
