package images

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Prober checks candidate image urls with cheap HEAD requests and
// remembers the verdicts, so regenerating a table never probes the same
// url twice in one session.
type Prober struct {
	client  *http.Client
	workers int

	mu    sync.Mutex
	alive map[string]bool
}

// NewProber builds a prober with the given per-request timeout and
// worker count for batch checks.
func NewProber(timeout time.Duration, workers int) *Prober {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if workers <= 0 {
		workers = 8
	}
	return &Prober{
		client:  &http.Client{Timeout: timeout},
		workers: workers,
		alive:   make(map[string]bool),
	}
}

// Check reports whether url answers a HEAD request with a success
// status. Any transport failure or status of 400 and above counts as no
// image.
func (p *Prober) Check(ctx context.Context, url string) bool {
	p.mu.Lock()
	if v, ok := p.alive[url]; ok {
		p.mu.Unlock()
		return v
	}
	p.mu.Unlock()

	ok := p.head(ctx, url)

	p.mu.Lock()
	p.alive[url] = ok
	p.mu.Unlock()
	return ok
}

func (p *Prober) head(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode < 400
}

// CheckAll probes a batch of urls under the worker pool, reporting
// progress as each verdict lands. Empty strings and duplicates in urls
// are skipped; the result maps each distinct url to its verdict.
func (p *Prober) CheckAll(ctx context.Context, urls []string, progress chan<- float64) map[string]bool {
	seen := make(map[string]bool)
	var pending []string
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		pending = append(pending, u)
	}

	results := make(map[string]bool, len(pending))
	if len(pending) == 0 {
		return results
	}

	workers := p.workers
	if workers > len(pending) {
		workers = len(pending)
	}

	type verdict struct {
		url string
		ok  bool
	}
	jobs := make(chan string)
	verdicts := make(chan verdict)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for url := range jobs {
				verdicts <- verdict{url: url, ok: p.Check(ctx, url)}
			}
		}()
	}

	go func() {
		for _, u := range pending {
			jobs <- u
		}
		close(jobs)
		wg.Wait()
		close(verdicts)
	}()

	done := 0
	for v := range verdicts {
		results[v.url] = v.ok
		done++
		if progress != nil {
			select {
			case progress <- float64(done) / float64(len(pending)):
			default:
			}
		}
	}
	return results
}

// Enrich resolves every row's code through the lookup and keeps only
// the urls that answer a HEAD request. The returned slice is aligned
// with rows; dead or missing images leave an empty string.
func Enrich(ctx context.Context, l *Lookup, p *Prober, rows [][]string, joinCol int, progress chan<- float64) []string {
	urls := RowURLs(l, rows, joinCol)
	alive := p.CheckAll(ctx, urls, progress)
	for i, u := range urls {
		if u != "" && !alive[u] {
			urls[i] = ""
		}
	}
	return urls
}
