package testutil

import (
	"sync"
	"time"

	"github.com/hanzikit/zhconv/pkg/converter"
)

// FakeConverter is a dictionary-free converter.TextConverter backed by
// a rune map. Runes without a mapping pass through, which mirrors how
// dictionary conversion leaves unknown text alone.
type FakeConverter struct {
	ConfigName string
	Mapping    map[rune]rune
	Err        error
}

// NewFakeS2T returns a fake covering the characters used in fixtures.
func NewFakeS2T() *FakeConverter {
	return &FakeConverter{
		ConfigName: "s2t",
		Mapping: map[rune]rune{
			'报': '報', '告': '告', '简': '簡', '体': '體',
			'转': '轉', '换': '換', '汉': '漢', '语': '語',
		},
	}
}

func (f *FakeConverter) Config() string {
	if f.ConfigName == "" {
		return "s2t"
	}
	return f.ConfigName
}

func (f *FakeConverter) Convert(text string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if mapped, ok := f.Mapping[r]; ok {
			r = mapped
		}
		out = append(out, r)
	}
	return string(out), nil
}

// StatusEvent is one OnItemStatusUpdate callback.
type StatusEvent struct {
	Path    string
	Status  converter.Status
	Message string
}

// RecordingHooks captures hook callbacks for assertions. Safe for
// concurrent use by engine workers.
type RecordingHooks struct {
	mu         sync.Mutex
	Discovered []string
	Updates    []StatusEvent
	Reports    []converter.Report
}

func (h *RecordingHooks) OnItemDiscovered(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Discovered = append(h.Discovered, path)
	return nil
}

func (h *RecordingHooks) OnItemStatusUpdate(path string, status converter.Status, message string, duration time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Updates = append(h.Updates, StatusEvent{Path: path, Status: status, Message: message})
	return nil
}

func (h *RecordingHooks) OnRunComplete(report converter.Report) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Reports = append(h.Reports, report)
	return nil
}

// FinalStatuses returns the last status seen per path.
func (h *RecordingHooks) FinalStatuses() map[string]converter.Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make(map[string]converter.Status)
	for _, u := range h.Updates {
		out[u.Path] = u.Status
	}
	return out
}
