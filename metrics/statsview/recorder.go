// Package statsview wires the teacher's optional runtime-statistics
// dashboard (github.com/go-echarts/statsview) to this module's execution
// counters: master cycles, DMA cycles stolen, and interrupts serviced.
//
// Grounded on statsview/statsview.go's Launch/Available pair — the teacher
// gates the whole package behind a "statsview" build tag and only starts
// the generic Go-runtime dashboard (goroutines, GC, memory). This package
// drops the build tag (the host driver's own -statsview flag is the opt-in
// instead) and adds a Recorder so the dashboard has CORE-specific counters
// to show, not just runtime internals.
package statsview

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address is the default bind address for the dashboard, named after the
// teacher's own constant.
const Address = "localhost:12600"

const dashboardPath = "/debug/statsview"
const countersPath = "/debug/nescounters"

// Recorder accumulates the engine's execution counters with atomic
// increments so it can be shared between the emulation goroutine and the
// dashboard's HTTP handlers without a mutex.
type Recorder struct {
	cycles    atomic.Uint64
	dmaCycles atomic.Uint64
	nmis      atomic.Uint64
	irqs      atomic.Uint64
	jams      atomic.Uint64
}

// NewRecorder returns a zeroed Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// AddCycles records n master cycles having elapsed.
func (r *Recorder) AddCycles(n uint64) { r.cycles.Add(n) }

// AddDMACycles records n of the elapsed cycles having been stolen by OAM
// DMA.
func (r *Recorder) AddDMACycles(n uint64) { r.dmaCycles.Add(n) }

// RecordNMI increments the serviced-NMI counter.
func (r *Recorder) RecordNMI() { r.nmis.Add(1) }

// RecordIRQ increments the serviced-IRQ counter.
func (r *Recorder) RecordIRQ() { r.irqs.Add(1) }

// RecordJam increments the JAM-halt counter.
func (r *Recorder) RecordJam() { r.jams.Add(1) }

// Snapshot is a point-in-time copy of the counters, suitable for JSON
// encoding.
type Snapshot struct {
	Cycles    uint64 `json:"cycles"`
	DMACycles uint64 `json:"dma_cycles"`
	NMIs      uint64 `json:"nmis"`
	IRQs      uint64 `json:"irqs"`
	Jams      uint64 `json:"jams"`
}

// Snapshot reads the current counter values.
func (r *Recorder) Snapshot() Snapshot {
	return Snapshot{
		Cycles:    r.cycles.Load(),
		DMACycles: r.dmaCycles.Load(),
		NMIs:      r.nmis.Load(),
		IRQs:      r.irqs.Load(),
		Jams:      r.jams.Load(),
	}
}

// countersAddress is the separate listener for rec's JSON counters: the
// statsview dashboard only exposes Go-runtime stats, so the CORE-specific
// counters get their own small server rather than reaching into statsview's
// internals.
const countersAddress = "localhost:12601"

// Launch starts the statsview dashboard in a background goroutine exactly
// as the teacher's Launch does (SetConfiguration + New().Start()), plus a
// second goroutine serving rec's counters as JSON, and reports both
// addresses to output.
func Launch(rec *Recorder, output io.Writer) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc(countersPath, func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(rec.Snapshot())
		})
		_ = http.ListenAndServe(countersAddress, mux)
	}()

	fmt.Fprintf(output, "stats server available at %s%s\ncounters available at %s%s\n",
		Address, dashboardPath, countersAddress, countersPath)
}

// Available reports whether a dashboard can be launched — always true,
// mirroring the teacher's Available, kept for host-driver symmetry with the
// build-tag-gated original.
func Available() bool { return true }
