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

package target

import (
	"bufio"
	"encoding/json"
	"math/rand"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
	liberr "github.com/sabouaram/lachesis/errors"
)

// record mirrors one line of the dataset file: {"name","type","value"}.
type record struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// datasetSource draws a uniformly random "a" record on every call. The
// reference rejection-samples until an "a" record is accepted; this
// implementation filters at load time, which is behaviourally equivalent
// (rejection sampling over a fixed population converges to the same
// uniform distribution over the accepted subset) and avoids an unbounded
// loop when the dataset is mostly non-"a" records.
type datasetSource struct {
	mu      sync.Mutex
	rng     *rand.Rand
	records []record
}

// OpenDataset reads path as newline-delimited JSON records, keeping only
// type=="a" records whose value parses as an IPv4 dotted-quad, per spec §6.
func OpenDataset(path string) (Source, liberr.Error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrorDatasetOpen.Error(err)
	}
	defer f.Close()

	var recs []record
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var r record
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			return nil, ErrorDatasetDecode.Error(err)
		}

		if !strings.EqualFold(r.Type, "a") {
			continue
		}

		if ip := net.ParseIP(r.Value).To4(); ip == nil {
			continue
		}

		recs = append(recs, r)
	}

	if err := scanner.Err(); err != nil {
		return nil, ErrorDatasetDecode.Error(err)
	}

	return &datasetSource{rng: rand.New(rand.NewSource(time.Now().UnixNano())), records: recs}, nil
}

// ValidDNSType reports whether typ is a recognised DNS resource record type
// name. OpenDataset does not call it; it keeps records whose "type" equals
// "a" case-insensitively.
func ValidDNSType(typ string) bool {
	_, ok := dns.StringToType[strings.ToUpper(typ)]
	return ok
}

func (d *datasetSource) Next() (Target, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.records) == 0 {
		return Target{}, false
	}

	r := d.records[d.rng.Intn(len(d.records))]
	return Target{Domain: r.Name, IP: net.ParseIP(r.Value).To4()}, true
}

