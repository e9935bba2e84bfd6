// Copyright 2026 mexcheck project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package stats

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	a := assert.New(t)
	set := newSet()
	a.Empty(set.Collect(All))

	v0 := set.Create("v0", "desc0", Prometheus("test_v0_total"))
	a.Equal(v0.Val(), 0)
	v0.Add(1)
	a.Equal(v0.Val(), 1)
	v0.Add(1)
	a.Equal(v0.Val(), 2)

	vv1 := 0
	v1 := set.Create("v1", "desc1", Console, func() int { return vv1 })
	a.Equal(v1.Val(), 0)
	vv1 = 11
	a.Equal(v1.Val(), 11)
	a.Panics(func() { v1.Add(1) })

	v2 := set.Create("v2", "desc2", Distribution{}, Prometheus("test_v2"))
	a.Equal(v2.Val(), 0)
	v2.Add(10)
	a.Equal(v2.Val(), 10)
	v2.Add(20)
	a.Equal(v2.Val(), 15)
	a.Panics(func() { v0.Quantile(0.5) })

	a.Panics(func() { set.Create("v3", "desc3", float64(1)) })

	ui := set.Collect(All)
	a.Len(ui, 3)
	a.Equal(UI{"v1", "desc1", Console, "11", 11}, ui[0])
	a.Equal(UI{"v0", "desc0", All, "2", 2}, ui[1])
	a.Equal("v2", ui[2].Name)
	a.Equal(15, ui[2].V)

	ui1 := set.Collect(Console)
	a.Len(ui1, 1)
	a.Equal("v1", ui1[0].Name)

	buf := new(bytes.Buffer)
	a.NoError(set.WritePrometheus(buf))
	a.Contains(buf.String(), "# TYPE test_v0_total counter")
	a.Contains(buf.String(), "test_v0_total 2")
	a.Contains(buf.String(), "# TYPE test_v2 gauge")
	a.Contains(buf.String(), "test_v2 15")
	a.NotContains(buf.String(), "v1")
}

func TestSetConcurrent(t *testing.T) {
	set := newSet()
	counter := set.Create("counter", "")
	dist := set.Create("dist", "", Distribution{})
	var wg sync.WaitGroup
	for p := 0; p < 8; p++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				counter.Add(1)
				dist.Add(3)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8000, counter.Val())
	assert.Equal(t, 3, dist.Val())
	assert.Equal(t, 3.0, dist.Quantile(0.5))
}
