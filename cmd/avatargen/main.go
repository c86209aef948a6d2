package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"

	"github.com/HugoSmits86/nativewebp"
	"github.com/binzume/avatargen/avatar"
	"github.com/binzume/avatargen/converter"
	"github.com/binzume/avatargen/texture"
	"github.com/binzume/avatargen/vrm"
)

func dumpAtlas(conf *avatar.Config, output string) error {
	atlas := texture.NewAtlas(conf.AtlasSize)
	base := color.RGBA{R: 240, G: 220, B: 200, A: 255}
	accent := color.RGBA{R: 60, G: 40, B: 40, A: 255}
	f, err := os.Create(output)
	if err != nil {
		return err
	}
	defer f.Close()
	return nativewebp.Encode(f, atlas.Image(base, accent), nil)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] [output.vrm]\n", os.Args[0])
		flag.PrintDefaults()
	}
	preset := flag.String("preset", "", "avatar preset file (.yaml)")
	name := flag.String("name", "", "avatar name")
	author := flag.String("author", "", "avatar author")
	height := flag.Float64("height", 0, "avatar height in meters")
	scale := flag.Float64("scale", 1.0, "output scale")
	unlit := flag.Bool("unlit", false, "unlit all materials")
	bodyTexture := flag.String("texture", "", "texture file for the body material")
	atlasOut := flag.String("dumpatlas", "", "write the expression atlas preview (.webp)")
	flag.Parse()

	output := flag.Arg(0)
	if output == "" {
		output = "avatar.vrm"
	}

	conf := avatar.DefaultConfig()
	if *preset != "" {
		c, err := avatar.LoadConfig(*preset)
		if err != nil {
			log.Fatal("preset error: ", err)
		}
		conf = c
	}
	if *name != "" {
		conf.Name = *name
	}
	if *author != "" {
		conf.Author = *author
	}
	if *height > 0 {
		conf.Height = float32(*height)
	}

	if *atlasOut != "" {
		if err := dumpAtlas(conf, *atlasOut); err != nil {
			log.Fatal("atlas dump error: ", err)
		}
		log.Print("Atlas: ", *atlasOut)
	}

	a, err := avatar.BuildFigure(conf)
	if err != nil {
		log.Fatal("build error: ", err)
	}

	conv := converter.NewAvatarToGLTFConverter(&converter.AvatarToGLTFOption{
		Scale:       float32(*scale),
		ForceUnlit:  *unlit,
		BaseTexture: *bodyTexture,
	})
	meta := vrm.Metadata{Name: conf.Name, Authors: []string{conf.Author}}
	doc, err := conv.Convert(a, []converter.ExportHook{vrm.NewRigWriter(meta)})
	if err != nil {
		log.Fatal("export error: ", err)
	}
	if err := vrm.Save(doc, output); err != nil {
		log.Fatal("write error: ", err)
	}
	log.Print("Saved: ", output)
}
