package perftests

import (
	"fmt"
	"math/rand"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"heartbids/internal/clock"
	model "heartbids/internal/models"
	"heartbids/internal/repository"
)

// LoadScenario defines configurable benchmark parameters
type LoadScenario struct {
	Name            string
	NumUsers        int
	NumListings     int
	ReadRatio       int // out of 10
	MaxBidIncrement int
	Burst           bool // if true, no delay between ops
}

// OperationMetrics collects latencies safely
type OperationMetrics struct {
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(d time.Duration) {
	om.mu.Lock()
	om.latencies = append(om.latencies, d)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (min, max, avg, p95, p99 time.Duration) {
	om.mu.Lock()
	latencies := slices.Clone(om.latencies)
	om.mu.Unlock()
	if len(latencies) == 0 {
		return
	}
	slices.Sort(latencies)

	min = latencies[0]
	max = latencies[len(latencies)-1]

	var total time.Duration
	for _, d := range latencies {
		total += d
	}
	avg = total / time.Duration(len(latencies))
	p95 = latencies[int(0.95*float64(len(latencies)-1))]
	p99 = latencies[int(0.99*float64(len(latencies)-1))]
	return
}

var benchNow = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

// setupStore creates a sandbox store with one seller, numUsers bidders and numListings open listings.
func setupStore(b *testing.B, numUsers, numListings int) (*repository.MemoryRepo, []string, []string) {
	b.Helper()

	clk := clock.NewFixed(benchNow)
	issuer, err := repository.NewTokenIssuer("perf", time.Hour, clk)
	if err != nil {
		b.Fatalf("token issuer: %v", err)
	}
	repo := repository.NewMemoryRepo(clk, issuer)

	register := func(name string) {
		if _, err := repo.Register(model.RegisterRequest{Name: name, Email: name + "@stud.noroff.no", Password: "password1"}); err != nil {
			b.Fatalf("register %s: %v", name, err)
		}
		if err := repo.AdjustCredits(name, 1<<30); err != nil {
			b.Fatalf("credits %s: %v", name, err)
		}
	}

	register("seller")
	users := make([]string, numUsers)
	for i := range users {
		users[i] = fmt.Sprintf("user_%d", i)
		register(users[i])
	}

	ids := make([]string, numListings)
	for i := range ids {
		l, err := repo.CreateListing("seller", model.ListingInput{
			Title:  fmt.Sprintf("Load test lot %d", i),
			EndsAt: benchNow.Add(24 * time.Hour),
		})
		if err != nil {
			b.Fatalf("create listing: %v", err)
		}
		ids[i] = l.ID
	}
	return repo, users, ids
}

// Benchmark_Load_SandboxStore runs multiple scenarios against the sandbox store
func Benchmark_Load_SandboxStore(b *testing.B) {
	scenarios := []LoadScenario{
		{"Low-Contention-WriteHeavy", 200, 200, 0, 50, false},
		{"High-Contention-WriteHeavy", 300, 10, 0, 20, false},
		{"Mixed-Workload", 200, 50, 7, 30, false},
		{"ReadHeavy", 100, 50, 9, 20, false},
		{"Edge-Case-SingleListing", 100, 1, 5, 10, false},
		{"Peak-Burst", 300, 50, 0, 20, true},
	}

	for _, s := range scenarios {
		b.Run(s.Name, func(b *testing.B) {
			runParallelScenario(b, s)
		})
	}
}

func runParallelScenario(b *testing.B, s LoadScenario) {
	repo, users, ids := setupStore(b, s.NumUsers, s.NumListings)

	var totalOps, acceptedBids, rejectedBids, totalReads int64
	listingAccepted := make([]int64, s.NumListings)
	metrics := &OperationMetrics{}

	b.ReportAllocs()
	b.ResetTimer()
	start := time.Now()

	b.RunParallel(func(pb *testing.PB) {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))

		for pb.Next() {
			idx := rnd.Intn(s.NumListings)
			opStart := time.Now()

			if rnd.Intn(10) < s.ReadRatio {
				l, err := repo.GetListing(ids[idx], repository.ListQuery{WithBids: true})
				if err == nil {
					l.Leader()
				}
				atomic.AddInt64(&totalReads, 1)
			} else {
				l, _ := repo.GetListing(ids[idx], repository.ListQuery{WithBids: true})
				amount := l.HighestBid() + 1 + rnd.Intn(s.MaxBidIncrement)
				user := users[rnd.Intn(len(users))]
				if _, err := repo.RecordBid(ids[idx], user, amount); err != nil {
					// lost the race to another bidder
					atomic.AddInt64(&rejectedBids, 1)
				} else {
					atomic.AddInt64(&acceptedBids, 1)
					atomic.AddInt64(&listingAccepted[idx], 1)
				}
			}

			metrics.Record(time.Since(opStart))
			atomic.AddInt64(&totalOps, 1)

			if !s.Burst {
				time.Sleep(time.Millisecond)
			}
		}
	})

	elapsed := time.Since(start)
	throughput := float64(totalOps) / elapsed.Seconds()
	min, max, avg, p95, p99 := metrics.Stats()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	b.Logf(
		"Scenario: %s | Listings: %d | Total Ops: %d | Accepted Bids: %d | Rejected Bids: %d | Reads: %d | Elapsed: %s | Throughput: %.2f ops/sec | Latency(us) min: %.2f avg: %.2f max: %.2f p95: %.2f p99: %.2f | Memory Alloc: %.2f MB",
		s.Name, s.NumListings, totalOps, acceptedBids, rejectedBids, totalReads, elapsed,
		throughput,
		float64(min.Microseconds()), float64(avg.Microseconds()), float64(max.Microseconds()),
		float64(p95.Microseconds()), float64(p99.Microseconds()),
		float64(mem.Alloc)/1024/1024,
	)

	// bids on one listing must strictly increase whatever the interleaving
	for i, id := range ids {
		l, err := repo.GetListing(id, repository.ListQuery{WithBids: true})
		if err != nil {
			b.Fatalf("get listing: %v", err)
		}
		if got := int64(len(l.Bids)); got != listingAccepted[i] {
			b.Fatalf("listing %d: %d bids stored, %d accepted", i, got, listingAccepted[i])
		}
		prev := 0
		for _, bid := range l.Bids {
			if bid.Amount <= prev {
				b.Fatalf("listing %d: bid %d after %d", i, bid.Amount, prev)
			}
			prev = bid.Amount
		}
	}
}
