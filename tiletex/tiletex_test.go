// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package tiletex

import (
	"errors"
	"image"
	"slices"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gogpu/ggmap/geom"
	"github.com/gogpu/ggmap/metrics"
	"github.com/gogpu/ggmap/source"
)

type countingUploader struct {
	uploads []string
	fail    error
}

type texture struct {
	key       string
	destroyed bool
}

func (t *texture) Destroy() { t.destroyed = true }

func (u *countingUploader) Upload(img image.Image, gutter int) (Entry, error) {
	if u.fail != nil {
		return Entry{}, u.fail
	}
	key := img.(*keyedImage).key
	u.uploads = append(u.uploads, key)
	return Entry{Handle: &texture{key: key}, Width: 256, Height: 256, Gutter: gutter}, nil
}

type keyedImage struct {
	*image.RGBA
	key string
}

func element(z, x, y int, center geom.Coordinate, res float64) Element {
	c := source.TileCoord{Z: z, X: x, Y: y}
	img := &keyedImage{RGBA: image.NewRGBA(image.Rect(0, 0, 1, 1)), key: c.String()}
	return Element{
		Tile:       source.NewLoadedTile(c, img),
		Center:     center,
		Resolution: res,
		Size:       [2]int{256, 256},
	}
}

func newLoader(t *testing.T, u Uploader, opts ...Option) *Loader {
	t.Helper()
	l, err := NewLoader(u, opts...)
	if err != nil {
		t.Fatalf("NewLoader() error = %v", err)
	}
	return l
}

func TestCacheEvictsLeastRecentlyTouched(t *testing.T) {
	const n = 3
	c := NewCache(n)
	textures := make([]*texture, n+1)
	for i := range n {
		textures[i] = &texture{}
		c.Set(string(rune('a'+i)), Entry{Handle: textures[i]})
	}

	if !c.Contains("a") {
		t.Fatal("Contains(a) = false")
	}

	textures[n] = &texture{}
	c.Set("d", Entry{Handle: textures[n]})

	if c.Len() != n {
		t.Errorf("Len() = %d, want %d", c.Len(), n)
	}
	if c.Contains("b") {
		t.Error("b should be evicted as least recently touched")
	}
	if !textures[1].destroyed {
		t.Error("evicted texture should be destroyed")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !c.Contains(k) {
			t.Errorf("Contains(%s) = false", k)
		}
	}
}

func TestCacheReplaceDestroysOld(t *testing.T) {
	c := NewCache(4)
	old, repl := &texture{}, &texture{}
	c.Set("a", Entry{Handle: old})
	c.Set("a", Entry{Handle: repl})
	if !old.destroyed || repl.destroyed {
		t.Errorf("old destroyed %v, replacement destroyed %v", old.destroyed, repl.destroyed)
	}
	c.Clear()
	if !repl.destroyed || c.Len() != 0 {
		t.Error("Clear() should destroy remaining textures")
	}
}

func TestDrainOneUploadsAtMostOne(t *testing.T) {
	for _, depth := range []int{0, 1, 5} {
		u := &countingUploader{}
		l := newLoader(t, u)
		for i := range depth {
			l.Enqueue(element(3, i, 0, geom.Coordinate{float64(i), 0}, 1))
		}
		l.DrainOne(geom.Coordinate{})

		want := min(depth, 1)
		if len(u.uploads) != want {
			t.Errorf("depth %d: uploads = %d, want %d", depth, len(u.uploads), want)
		}
		if l.QueueLen() != depth-want {
			t.Errorf("depth %d: QueueLen() = %d, want %d", depth, l.QueueLen(), depth-want)
		}
	}
}

func TestDrainOrderByDistance(t *testing.T) {
	u := &countingUploader{}
	l := newLoader(t, u)
	l.Enqueue(element(5, 0, 0, geom.Coordinate{1000, 0}, 10))
	l.Enqueue(element(5, 1, 0, geom.Coordinate{100, 0}, 10))

	l.DrainOne(geom.Coordinate{})
	if !slices.Equal(u.uploads, []string{"5/1/0"}) {
		t.Errorf("first upload = %v, want the tile near the focus", u.uploads)
	}

	// Moving the focus reorders the remaining elements.
	l.Enqueue(element(5, 2, 0, geom.Coordinate{5000, 0}, 10))
	l.DrainOne(geom.Coordinate{5000, 0})
	if u.uploads[1] != "5/2/0" {
		t.Errorf("second upload = %s, want 5/2/0", u.uploads[1])
	}
}

func TestDrainOrderByResolution(t *testing.T) {
	u := &countingUploader{}
	l := newLoader(t, u)
	l.Enqueue(element(4, 0, 0, geom.Coordinate{0, 100}, 20))
	l.Enqueue(element(5, 0, 0, geom.Coordinate{0, 100}, 10))

	l.DrainOne(geom.Coordinate{})
	if !slices.Equal(u.uploads, []string{"5/0/0"}) {
		t.Errorf("uploads = %v, want the lower resolution value first", u.uploads)
	}
}

func TestEnqueueReplacesSameTile(t *testing.T) {
	l := newLoader(t, &countingUploader{})
	l.Enqueue(element(1, 0, 0, geom.Coordinate{}, 1))
	l.Enqueue(element(1, 0, 0, geom.Coordinate{5, 5}, 1))
	if l.QueueLen() != 1 || !l.Queued("1/0/0") {
		t.Errorf("QueueLen() = %d, want a single element", l.QueueLen())
	}
}

func TestDrainSkipsLoadedTile(t *testing.T) {
	u := &countingUploader{}
	l := newLoader(t, u)
	e := element(1, 0, 0, geom.Coordinate{}, 1)
	l.Enqueue(e)
	l.DrainOne(geom.Coordinate{})
	l.Enqueue(e)
	if l.DrainOne(geom.Coordinate{}) {
		t.Error("DrainOne() should not upload a tile that is already loaded")
	}
	if len(u.uploads) != 1 {
		t.Errorf("uploads = %d, want 1", len(u.uploads))
	}
}

func TestUploadFailureIsCounted(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	u := &countingUploader{fail: errors.New("device lost")}
	l := newLoader(t, u, WithMetrics(m))
	l.Enqueue(element(1, 0, 0, geom.Coordinate{}, 1))

	if l.DrainOne(geom.Coordinate{}) {
		t.Error("DrainOne() = true on failure")
	}
	if l.IsLoaded("1/0/0") {
		t.Error("failed tile should not be loaded")
	}
	if got := testutil.ToFloat64(m.UploadFailures); got != 1 {
		t.Errorf("upload failures = %v, want 1", got)
	}
}

func TestContextLossWindow(t *testing.T) {
	u := &countingUploader{}
	l := newLoader(t, u)
	e := element(2, 1, 1, geom.Coordinate{}, 1)
	l.Enqueue(e)
	l.DrainOne(geom.Coordinate{})
	if !l.IsLoaded(e.Key()) {
		t.Fatal("tile should be loaded before the loss")
	}
	handle, _ := l.Texture(e.Key())

	l.HandleContextLost()
	if l.Cache().Len() != 0 {
		t.Errorf("cache length after loss = %d, want 0", l.Cache().Len())
	}
	if l.IsLoaded(e.Key()) {
		t.Error("IsLoaded() must be false during the loss window")
	}
	if _, ok := l.Texture(e.Key()); ok {
		t.Error("Texture() returned a handle during the loss window")
	}
	l.Enqueue(e)
	if l.DrainOne(geom.Coordinate{}) {
		t.Error("no upload may happen while the context is lost")
	}
	if handle.Handle.(*texture).destroyed {
		t.Error("handles of a lost context must not be destroyed")
	}

	l.HandleContextRestored()
	if !l.DrainOne(geom.Coordinate{}) {
		t.Error("upload should resume after restore")
	}
}

func TestSoftwareUploader(t *testing.T) {
	src := image.NewNRGBA(image.Rect(10, 10, 14, 12))
	e, err := SoftwareUploader{}.Upload(src, 2)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	rgba, ok := e.Handle.(*image.RGBA)
	if !ok || rgba.Bounds() != image.Rect(0, 0, 4, 2) || e.Gutter != 2 {
		t.Errorf("entry = %+v", e)
	}
	if _, err := (SoftwareUploader{}).Upload(nil, 0); !errors.Is(err, ErrNoImage) {
		t.Errorf("Upload(nil) error = %v, want ErrNoImage", err)
	}
}

func TestConstructorErrors(t *testing.T) {
	if _, err := NewLoader(nil); !errors.Is(err, ErrNilUploader) {
		t.Errorf("NewLoader(nil) error = %v", err)
	}
	if _, err := NewCreatorUploader(nil); !errors.Is(err, ErrNilCreator) {
		t.Errorf("NewCreatorUploader(nil) error = %v", err)
	}
}

func TestPriority(t *testing.T) {
	near := Priority(Element{Center: geom.Coordinate{10, 0}, Resolution: 1}, geom.Coordinate{})
	far := Priority(Element{Center: geom.Coordinate{20, 0}, Resolution: 1}, geom.Coordinate{})
	if near != 10 || far != 20 {
		t.Errorf("priorities = %v, %v; want 10 and 20", near, far)
	}
}

func TestEnqueueBeforeFirstDrain(t *testing.T) {
	u := &countingUploader{}
	l := newLoader(t, u)
	l.Enqueue(element(1, 0, 0, geom.Coordinate{}, 1))
	if l.QueueLen() != 1 {
		t.Fatalf("QueueLen() = %d, want 1", l.QueueLen())
	}
	if !l.DrainOne(geom.Coordinate{}) {
		t.Error("DrainOne() = false, want an upload")
	}
	if !l.IsLoaded("1/0/0") {
		t.Error("tile should be loaded after the drain")
	}
}

func TestSetFocusOrdersQueue(t *testing.T) {
	u := &countingUploader{}
	l := newLoader(t, u)
	l.SetFocus(geom.Coordinate{900, 0})
	l.Enqueue(element(5, 0, 0, geom.Coordinate{0, 0}, 10))
	l.Enqueue(element(5, 1, 0, geom.Coordinate{1000, 0}, 10))
	if l.QueueLen() != 2 {
		t.Fatalf("QueueLen() = %d, want 2", l.QueueLen())
	}

	l.DrainOne(geom.Coordinate{900, 0})
	if !slices.Equal(u.uploads, []string{"5/1/0"}) {
		t.Errorf("uploads = %v, want the tile near the focus", u.uploads)
	}
}
