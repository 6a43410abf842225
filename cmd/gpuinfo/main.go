// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
	"gopkg.in/yaml.v3"

	"mochi.dev/gpu"
	"mochi.dev/graph"
)

var (
	configPath  = flag.String("config", "", "read the backend configuration from a TOML file")
	backends    = flag.String("backend", "", "comma separated list of backends to try, in order (vulkan, opengl, opengles)")
	sizeFlag    = flag.String("size", "256x256", "surface size, WxH")
	graphPath   = flag.String("graph", "", "render graph to execute (.yaml, .yml or binary)")
	convertPath = flag.String("convert", "", "write the -graph file to this file and exit; the format follows the extension")
	destPath    = flag.String("o", "", "write a PNG screenshot of the surface")
	scale       = flag.Int("scale", 1, "scale factor of the screenshot")
	printConfig = flag.Bool("printconfig", false, "print the effective configuration and exit")
	verbose     = flag.Bool("v", false, "log debug messages")
)

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, mainUsage)
	}
	flag.Parse()
	if err := mainErr(); err != nil {
		fmt.Fprintf(os.Stderr, "gpuinfo: %v\n", err)
		os.Exit(1)
	}
}

func mainErr() error {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	gpu.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	var g *graph.Graph
	if *graphPath != "" {
		var err error
		if g, err = loadGraph(*graphPath); err != nil {
			return err
		}
	}
	if *convertPath != "" {
		if g == nil {
			return errors.New("-convert requires -graph")
		}
		return saveGraph(*convertPath, g)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if *printConfig {
		return cfg.Encode(os.Stdout)
	}
	size, err := parseSize(*sizeFlag)
	if err != nil {
		return err
	}
	if *scale < 1 {
		return fmt.Errorf("invalid -scale %d", *scale)
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	ctx, err := gpu.NewContextWithConfig(cfg, size.X, size.Y)
	if err != nil {
		return err
	}
	defer ctx.Release()
	printInfo(os.Stdout, ctx.DeviceInfo())

	if g != nil {
		if err := ctx.Execute(g); err != nil {
			return err
		}
	}
	if *destPath != "" {
		img := image.NewRGBA(image.Rectangle{Max: size})
		if err := ctx.Screenshot(img); err != nil {
			return err
		}
		if err := writePNG(*destPath, scaleImage(img, *scale)); err != nil {
			return err
		}
	}
	return ctx.Present()
}

func loadConfig() (gpu.Config, error) {
	cfg := gpu.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = gpu.LoadConfig(*configPath); err != nil {
			return cfg, err
		}
	} else {
		var err error
		if cfg, err = cfg.WithEnv(); err != nil {
			return cfg, err
		}
	}
	if *backends != "" {
		bs, err := gpu.ParseBackends(strings.Split(*backends, ","))
		if err != nil {
			return cfg, fmt.Errorf("invalid -backend: %w", err)
		}
		cfg.Backends = bs
	}
	return cfg, nil
}

// parseSize parses a size such as 800x600.
func parseSize(s string) (image.Point, error) {
	w, h, ok := strings.Cut(s, "x")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid size %q", s)
	}
	x, errx := strconv.Atoi(w)
	y, erry := strconv.Atoi(h)
	if errx != nil || erry != nil || x <= 0 || y <= 0 {
		return image.Point{}, fmt.Errorf("invalid size %q", s)
	}
	return image.Pt(x, y), nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func loadGraph(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g := new(graph.Graph)
	if isYAML(path) {
		err = yaml.Unmarshal(data, g)
	} else {
		err = g.UnmarshalBinary(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func saveGraph(path string, g *graph.Graph) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(g)
	} else {
		data, err = g.MarshalBinary()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func printInfo(w io.Writer, info gpu.DeviceInfo) {
	fmt.Fprintf(w, "backend:          %s\n", info.Backend)
	fmt.Fprintf(w, "device:           %s\n", info.Device)
	fmt.Fprintf(w, "vendor:           %s\n", info.Vendor)
	fmt.Fprintf(w, "driver:           %s\n", info.Driver)
	fmt.Fprintf(w, "platform:         %s\n", info.Platform)
	fmt.Fprintf(w, "max texture size: %d\n", info.MaxTextureSize)
	fmt.Fprintf(w, "compute:          %v\n", info.Compute)
}

func scaleImage(img *image.RGBA, s int) image.Image {
	if s == 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*s, b.Dy()*s))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
