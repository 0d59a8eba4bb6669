package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rustyoz/svg"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	pstypes "github.com/KJLJon/Posterize-Image/type"
)

// frame 表示视频中的一帧
type frame struct {
	index int
	buf   *pstypes.PixelBuffer
}

// extractFrames 用 ffmpeg 按指定帧率抽帧并解码
// 缩放交给 ffmpeg 完成，进入核心管线前尺寸已经受控
func extractFrames(ctx context.Context, videoPath string, fps, maxWidth int) ([]frame, error) {
	if fps <= 0 {
		fps = 1
	}
	if maxWidth <= 0 {
		maxWidth = 96
	}

	r, w := io.Pipe()

	cmd := ffmpeg.Input(videoPath).
		Output("pipe:1", ffmpeg.KwArgs{
			"format": "image2pipe",
			"vcodec": "png",
			"r":      strconv.Itoa(fps),
			"vf":     fmt.Sprintf("scale=%d:-1", maxWidth),
		}).
		WithOutput(w).
		WithErrorOutput(os.Stderr)
	cmd.Context = ctx

	go func() {
		err := cmd.Run()
		w.CloseWithError(err)
	}()

	var frames []frame
	reader := bufio.NewReader(r)
	index := 0
	for {
		img, _, err := image.Decode(reader)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode frame %d failed: %w", index, err)
		}
		frames = append(frames, frame{index: index, buf: pstypes.FromImage(img)})
		index++
	}

	if len(frames) == 0 {
		return nil, errors.New("no frames extracted")
	}
	return frames, nil
}

// posterizeVideo 对每一帧独立执行海报化并写出编号 SVG 文件
func posterizeVideo(ctx context.Context, videoPath string, fps, maxWidth int, outputPath string, opts Options, parallel int, serial bool) error {
	log.Println("Extracting frames from video...")
	frames, err := extractFrames(ctx, videoPath, fps, maxWidth)
	if err != nil {
		return err
	}
	log.Printf("Extracted %d frames\n", len(frames))

	results := make([]*Result, len(frames))
	if serial || parallel <= 1 {
		for i, f := range frames {
			res, err := posterize(f.buf, opts)
			if err != nil {
				return fmt.Errorf("frame %d: %w", f.index, err)
			}
			results[i] = res
		}
	} else {
		// 按帧并行，信号量限制协程数
		var wg sync.WaitGroup
		sem := make(chan struct{}, parallel)
		errs := make(chan error, len(frames))
		for i, f := range frames {
			wg.Add(1)
			go func(idx int, fr frame) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				res, err := posterize(fr.buf, opts)
				if err != nil {
					errs <- fmt.Errorf("frame %d: %w", fr.index, err)
					return
				}
				results[idx] = res
			}(i, f)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			return err
		}
	}

	// 用首帧文档校验视口尺寸
	parsed, err := svg.ParseSvg(results[0].SVG, "frame0", 1.0)
	if err != nil {
		return fmt.Errorf("generated document failed to parse: %w", err)
	}
	log.Printf("frame viewBox: %s", parsed.ViewBox)

	log.Println("Writing frame documents...")
	ext := filepath.Ext(outputPath)
	base := strings.TrimSuffix(outputPath, ext)
	if ext == "" {
		ext = ".svg"
	}
	for i, res := range results {
		path := fmt.Sprintf("%s_%d%s", base, i, ext)
		if err := writeOutput(path, res); err != nil {
			return err
		}
	}
	return nil
}
