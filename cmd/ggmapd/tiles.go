package main

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strconv"
	"strings"

	"github.com/gogpu/ggmap"
	"github.com/gogpu/ggmap/config"
	"github.com/gogpu/ggmap/source"
)

const tileSize = 256

// newTileFunc fetches tiles from the configured URL template, or draws a
// checkerboard when no URL is set.
func newTileFunc(cfg config.Tiles) source.TileFunc {
	if cfg.URL == "" {
		return checkerboard
	}
	client := &http.Client{Timeout: cfg.Timeout}
	return func(c source.TileCoord) (image.Image, error) {
		return fetchTile(client, cfg.URL, c)
	}
}

// tileURL expands {z}, {x} and {y} in tmpl.
func tileURL(tmpl string, c source.TileCoord) string {
	return strings.NewReplacer(
		"{z}", strconv.Itoa(c.Z),
		"{x}", strconv.Itoa(c.X),
		"{y}", strconv.Itoa(c.Y),
	).Replace(tmpl)
}

func fetchTile(client *http.Client, tmpl string, c source.TileCoord) (image.Image, error) {
	url := tileURL(tmpl, c)
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "ggmapd/"+ggmap.Version)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch tile %s: %w", c, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch tile %s: %s", c, resp.Status)
	}
	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("decode tile %s: %w", c, err)
	}
	return img, nil
}

var (
	checkLight = color.RGBA{238, 238, 238, 255}
	checkDark  = color.RGBA{210, 210, 210, 255}
	checkEdge  = color.RGBA{160, 160, 160, 255}
)

// checkerboard draws a synthetic tile whose shade alternates by position.
func checkerboard(c source.TileCoord) (image.Image, error) {
	img := image.NewRGBA(image.Rect(0, 0, tileSize, tileSize))
	bg := checkLight
	if (c.X+c.Y)%2 != 0 {
		bg = checkDark
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	for i := range tileSize {
		img.SetRGBA(i, 0, checkEdge)
		img.SetRGBA(0, i, checkEdge)
	}
	return img, nil
}
