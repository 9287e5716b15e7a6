package main

import (
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/juruen/slideview/annotations"
	"github.com/juruen/slideview/api"
	"github.com/juruen/slideview/geometry"
	"github.com/juruen/slideview/model"
	"github.com/juruen/slideview/overlay"
	"github.com/juruen/slideview/pyramid"
	"github.com/juruen/slideview/viewer"
)

func main() {
	metadataName := flag.String("m", "", "slide metadata json")
	annotationsName := flag.String("a", "", "annotations json")
	outputName := flag.String("o", "", "output file, .svg or .pdf")
	selected := flag.Int("s", -1, "index of the annotation to highlight")
	extract := flag.String("e", "", "extract, a - annotation positions as text")
	flag.Parse()
	var err error

	switch *extract {
	case "a":
		err = txtannotations(*metadataName, *annotationsName, *outputName)
	case "":
		err = convert(*metadataName, *annotationsName, *outputName, *selected)
	default:
		err = fmt.Errorf("unknown extract mode %q", *extract)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadDescriptor(metadataName string) (*pyramid.Descriptor, error) {
	if metadataName == "" {
		return nil, errors.New("missing metadata file")
	}
	b, err := os.ReadFile(metadataName)
	if err != nil {
		return nil, err
	}
	record, err := api.DecodeRecord(b)
	if err != nil {
		return nil, err
	}
	return pyramid.Parse(record)
}

func loadAnnotations(annotationsName string) ([]model.Annotation, error) {
	if annotationsName == "" {
		return nil, errors.New("missing annotations file")
	}
	return annotations.LoadFile(annotationsName)
}

func txtannotations(metadataName, annotationsName, outputName string) error {
	d, err := loadDescriptor(metadataName)
	if err != nil {
		return err
	}
	list, err := loadAnnotations(annotationsName)
	if err != nil {
		return err
	}

	if outputName == "" {
		nameOnly := strings.TrimSuffix(annotationsName, filepath.Ext(annotationsName))
		outputName = nameOnly + ".txt"
	}
	f, err := os.Create(outputName)
	if err != nil {
		return err
	}
	defer f.Close()

	type entry struct {
		index  int
		center geometry.Point2D
		a      *model.Annotation
	}
	entries := make([]entry, 0, len(list))
	for i := range list {
		if list[i].Geometry.Validate() != nil {
			continue
		}
		entries = append(entries, entry{i, geometry.Centroid(list[i].Geometry, 1, 1), &list[i]})
	}
	sort.Slice(entries, func(i, j int) bool {
		y1, y2 := entries[i].center.Y, entries[j].center.Y
		if math.Abs(y1-y2) < 5 {
			return entries[i].center.X < entries[j].center.X
		}
		return y1 < y2
	})

	f.WriteString(fmt.Sprintf("Slide %dx%d\n", d.BaseWidth, d.BaseHeight))
	for _, e := range entries {
		f.WriteString(fmt.Sprintf(" [%d] X:%d Y:%d\t%s\t%s\n",
			e.index, int(e.center.X), int(e.center.Y), e.a.Geometry.Type, e.a.Name))
	}

	return nil
}

func convert(metadataName, annotationsName, outputName string, selected int) (err error) {
	d, err := loadDescriptor(metadataName)
	if err != nil {
		return err
	}
	list, err := loadAnnotations(annotationsName)
	if err != nil {
		return err
	}
	if selected >= len(list) {
		return fmt.Errorf("annotation index %d out of range", selected)
	}

	if outputName == "" {
		nameOnly := strings.TrimSuffix(annotationsName, filepath.Ext(annotationsName))
		outputName = nameOnly + ".svg"
	}

	n := geometry.NewNormalizer(d.BaseWidth, d.BaseHeight)
	o := overlay.New()
	o.Resize(n.Aspect())
	viewer.Draw(o, n, list, nil)
	viewer.NewStrokeScaler(viewer.ReferenceStrokeWidth, 1, o).HandleZoom(1)
	if selected >= 0 {
		viewer.Highlight(o, &list[selected])
	}

	switch strings.ToLower(filepath.Ext(outputName)) {
	case ".pdf":
		options := annotations.PdfGeneratorOptions{
			Title: filepath.Base(metadataName),
		}
		return annotations.CreatePdfGenerator(outputName, options).Generate(o)
	case ".svg":
		outputFile, err := os.Create(outputName)
		if err != nil {
			return fmt.Errorf("can't create outputfile %w", err)
		}
		defer outputFile.Close()
		_, err = o.WriteTo(outputFile)
		return err
	}
	return fmt.Errorf("unsupported output format %s", outputName)
}
