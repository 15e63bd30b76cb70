package parser

import (
	"encoding/json"
	"sync"
	"testing"
)

// Conversions hold no shared state, so independent parsers may run
// concurrently and must agree on the output.
func TestConcurrentConversionsAgree(t *testing.T) {
	source := `import os

class C(Base, metaclass=abc.ABCMeta):
    def m(self, x):  # type: (int) -> str
        return x and self.y
`
	baseline := parseSource(t, source)
	want, err := json.Marshal(baseline)
	if err != nil {
		t.Fatalf("marshal baseline: %v", err)
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([][]byte, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := NewModuleParser()
			if err != nil {
				errs[i] = err
				return
			}
			defer p.Close()
			file, err := p.ParseModule([]byte(source), "main.py", nil)
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = json.Marshal(file)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		if string(results[i]) != string(want) {
			t.Fatalf("worker %d produced a different tree", i)
		}
	}
}
