// Package vision extracts drawable contours from photographs.
//
// Images are loaded with EXIF orientation applied, shrunk to fit the
// configured bounds and run through a Canny edge detector. Contours are
// returned in OpenCV traversal order and flattened into one point sequence
// in the image's pixel space.
package vision

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r2"
	"github.com/nfnt/resize"
	"gocv.io/x/gocv"

	"github.com/gwillem/uarm/pkg/draw"
)

// Options tunes loading and edge detection.
type Options struct {
	MaxWidth      uint
	MaxHeight     uint
	Blur          int // Gaussian kernel size, odd; 0 disables blurring
	LowThreshold  float32
	HighThreshold float32
	MinPoints     int // contours with fewer points are dropped
}

// Load decodes an image file, applying its EXIF orientation.
func Load(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return img, nil
}

// Downscale shrinks img to fit maxW x maxH keeping its aspect ratio. Images
// that already fit are returned unchanged.
func Downscale(img image.Image, maxW, maxH uint) image.Image {
	b := img.Bounds()
	if maxW == 0 || maxH == 0 || (uint(b.Dx()) <= maxW && uint(b.Dy()) <= maxH) {
		return img
	}
	return resize.Thumbnail(maxW, maxH, img, resize.Lanczos3)
}

// Contours runs edge detection on img and returns the contours found.
func Contours(img image.Image, opts Options) ([][]image.Point, error) {
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty image")
	}

	mat, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC4, nrgba.Pix)
	if err != nil {
		return nil, fmt.Errorf("convert image: %w", err)
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBAToGray)

	if k := opts.Blur; k > 0 {
		if k%2 == 0 {
			k++
		}
		gocv.GaussianBlur(gray, &gray, image.Pt(k, k), 0, 0, gocv.BorderDefault)
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, opts.LowThreshold, opts.HighThreshold)

	found := gocv.FindContours(edges, gocv.RetrievalList, gocv.ChainApproxSimple)
	defer found.Close()

	return found.ToPoints(), nil
}

// ImageContours is a draw.Source backed by the edges of a photograph.
type ImageContours struct {
	img  image.Image
	opts Options
}

var _ draw.Source = (*ImageContours)(nil)

// Open loads and downscales the image at path.
func Open(path string, opts Options) (*ImageContours, error) {
	img, err := Load(path)
	if err != nil {
		return nil, err
	}
	return New(img, opts), nil
}

// New wraps an already decoded image.
func New(img image.Image, opts Options) *ImageContours {
	return &ImageContours{
		img:  Downscale(img, opts.MaxWidth, opts.MaxHeight),
		opts: opts,
	}
}

// Image returns the downscaled image edges are extracted from.
func (c *ImageContours) Image() image.Image { return c.img }

// Canvas returns the pixel size of the downscaled image.
func (c *ImageContours) Canvas() draw.Canvas {
	b := c.img.Bounds()
	return draw.Canvas{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

// Points returns the contour points in traversal order.
func (c *ImageContours) Points(ctx context.Context) ([]r2.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contours, err := Contours(c.img, c.opts)
	if err != nil {
		return nil, err
	}
	return draw.FlattenContours(contours, c.opts.MinPoints), nil
}
