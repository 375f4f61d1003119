package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chaos-io/colorkey/rembg"
	"github.com/chaos-io/colorkey/util"
)

type removeOptions struct {
	Input     string
	Output    string
	Color     string
	Tolerance int
	MaxSize   int
	Remote    string
}

func runRemove(cmd *cobra.Command, args []string) error {
	opts := removeOptions{Input: args[0], Output: args[1]}
	opts.Color, _ = cmd.Flags().GetString("color")
	opts.Tolerance, _ = cmd.Flags().GetInt("tolerance")
	opts.MaxSize, _ = cmd.Flags().GetInt("max-size")
	opts.Remote, _ = cmd.Flags().GetString("remote")

	return removeBackground(cmd, opts)
}

// removeBackground 解析颜色 → 读图 → 去背景 → 写 PNG
// 颜色格式错误时不会读图，更不会写输出
func removeBackground(cmd *cobra.Command, opts removeOptions) error {
	defer util.Trace("remove background")()

	var color *rembg.Color
	if opts.Color != "" {
		c, err := rembg.ParseColor(opts.Color)
		if err != nil {
			return err
		}
		color = &c
	}

	ctx := cmd.Context()
	img, err := util.LoadImage(ctx, opts.Input)
	if err != nil {
		return err
	}
	img = util.ResizeWithinMax(img, opts.MaxSize)

	report := func(c rembg.Color) {
		fmt.Fprintf(cmd.OutOrStdout(), "Sampled background color: %s\n", c)
	}

	var remover rembg.Remover
	if opts.Remote != "" {
		remote := rembg.NewRemote(opts.Remote, color, opts.Tolerance)
		remote.OnSample = report
		remover = remote
	} else {
		key := rembg.NewColorKey(color, opts.Tolerance)
		key.OnSample = report
		remover = key
	}

	out, err := remover.Remove(ctx, img)
	if err != nil {
		return fmt.Errorf("remove background: %w", err)
	}

	if err := util.WritePNG(opts.Output, out); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", opts.Output)
	return nil
}
