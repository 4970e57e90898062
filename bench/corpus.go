package bench

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	xdraw "golang.org/x/image/draw"

	"github.com/imgbench/codec-bench/config"
	"github.com/imgbench/codec-bench/core"
	apperrors "github.com/imgbench/codec-bench/errors"
	"github.com/imgbench/codec-bench/utils"
)

// CorpusImage is one decoded benchmark input.
type CorpusImage struct {
	Name      string
	Image     *core.Image
	SizeBytes int64
}

// LoadCorpus reads and decodes every recognized image directly under dir.
// Unrecognized files are skipped; an empty result is an error. With
// args.MaxEdge set, images are downscaled so their longest edge fits.
func LoadCorpus(ctx context.Context, dir string, args config.BenchmarkArgs) ([]CorpusImage, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CategoryInput, "corpus.read", err)
	}

	var corpus []CorpusImage
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryInput, "corpus.read", err)
		}
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		img, size, err := loadImage(ctx, path, args.MaxImageBytes)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.CategoryInput, "corpus.load "+entry.Name(), err)
		}
		if img == nil {
			continue // not an image we recognize
		}
		if args.MaxEdge > 0 {
			img = downscale(img, args.MaxEdge)
		}
		decoded := core.NewImage(img)
		decoded.Name = entry.Name()
		corpus = append(corpus, CorpusImage{Name: entry.Name(), Image: decoded, SizeBytes: size})
	}

	if len(corpus) == 0 {
		return nil, apperrors.New(apperrors.CategoryInput, "corpus.load",
			fmt.Errorf("no decodable images in %s", dir))
	}
	return corpus, nil
}

func loadImage(ctx context.Context, path string, maxBytes int64) (image.Image, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	var r io.Reader = f
	if maxBytes > 0 {
		// One extra byte so a file of exactly maxBytes still reads cleanly.
		r = &utils.LimitedReader{R: f, Max: maxBytes + 1}
	}
	buf, err := utils.DrainReader(ctx, r, 0)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, 0, fmt.Errorf("file exceeds %d byte limit", maxBytes)
		}
		return nil, 0, err
	}
	defer utils.ReleaseBuffer(buf)
	raw := buf.Bytes()

	switch utils.DetectFormat(raw) {
	case "jpeg":
		img, err := jpeg.Decode(utils.BytesReader(raw))
		return img, int64(len(raw)), err
	case "png":
		img, err := png.Decode(utils.BytesReader(raw))
		return img, int64(len(raw)), err
	}
	return nil, 0, nil
}

// downscale shrinks img so its longest edge is at most maxEdge.
func downscale(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxEdge && h <= maxEdge {
		return img
	}
	var dw, dh int
	if w >= h {
		dw, dh = utils.ScaleDimensions(w, h, maxEdge, 0)
	} else {
		dw, dh = utils.ScaleDimensions(w, h, 0, maxEdge)
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, b, xdraw.Over, nil)
	return dst
}
