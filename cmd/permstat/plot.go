// Copyright 2024 The Permstat Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// plotCurve renders a traced p-value function as a PNG. If alpha is
// positive, a horizontal line marks the significance level, so the
// confidence interval can be read off as the region above it.
func plotCurve(file string, grid [][]float64, ps []float64, alpha float64) error {
	p := plot.New()
	p.Title.Text = "p-value function"
	p.X.Label.Text = "parameter"
	p.Y.Label.Text = "p-value"
	p.Y.Min, p.Y.Max = 0, 1

	pts := make(plotter.XYs, len(grid))
	for i := range grid {
		pts[i].X = grid[i][0]
		pts[i].Y = ps[i]
	}
	curve, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	curve.Color = color.RGBA{B: 255, A: 255}
	curve.Width = vg.Points(1.5)
	p.Add(curve, plotter.NewGrid())

	if alpha > 0 {
		level, err := plotter.NewLine(plotter.XYs{
			{X: grid[0][0], Y: alpha},
			{X: grid[len(grid)-1][0], Y: alpha},
		})
		if err != nil {
			return err
		}
		level.Color = color.RGBA{R: 255, A: 255}
		level.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(level)
	}

	return p.Save(16*vg.Centimeter, 10*vg.Centimeter, file)
}
