// steptool is a CLI utility for inspecting PrisonStep content and running
// the simulation without a window.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/Faultbox/prisonstep/internal/anim"
	"github.com/Faultbox/prisonstep/internal/assets"
	"github.com/Faultbox/prisonstep/internal/config"
	"github.com/Faultbox/prisonstep/internal/locomotion"
	"github.com/Faultbox/prisonstep/internal/sim"
	"github.com/Faultbox/prisonstep/pkg/math"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "rig":
		cmdRig(args)
	case "dump":
		cmdDump(args)
	case "regions":
		cmdRegions(args)
	case "classify":
		cmdClassify(args)
	case "walk":
		cmdWalk(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`steptool - PrisonStep content utility

Usage:
  steptool <command> [options]

Commands:
  rig <content> <rig.yaml>              Show skeleton, skin palette and clips
  dump <content> <rig.yaml>             Dump the loaded rig structure
  regions <content> <collision.gltf>    List floor plan regions
  classify <content> <collision.gltf> <x> <z>
                                        Name the region under a point
  walk <content> <seconds>              Walk forward headless and trace the path
  config [path]                         Write the default settings (to the
                                        user config directory without a path)

Examples:
  steptool rig content victoria.yaml
  steptool classify content prison-collision.gltf 275 1053
  steptool walk content 3`)
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func openContent(dir string) *assets.Manager {
	m := assets.NewManager()
	if err := m.AddDir(dir); err != nil {
		fail(err)
	}
	return m
}

func cmdRig(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: steptool rig <content> <rig.yaml>")
		os.Exit(1)
	}
	rig, err := openContent(args[0]).LoadRig(args[1])
	if err != nil {
		fail(err)
	}

	skel := rig.Skeleton
	fmt.Printf("Bones: %d (root %q)\n", skel.BoneCount(), skel.Bones[skel.RootBone].Name)
	for _, b := range skel.Bones {
		depth := 0
		for p := b.Parent; p != anim.NoParent; p = skel.Bones[p].Parent {
			depth++
		}
		pos := b.BindAbsolute.Translation()
		fmt.Printf("  %s%-*s (%.2f, %.2f, %.2f)\n",
			strings.Repeat("  ", depth), 32-2*depth, b.Name, pos.X, pos.Y, pos.Z)
	}

	if rig.Skin != nil {
		fmt.Printf("\nSkin palette: %d of %d slots\n", len(rig.Skin.Bones), anim.MaxSkinMatrices)
	}

	fmt.Printf("\nClips: %d\n", len(rig.Clips))
	for _, name := range rig.ClipNames() {
		clip := rig.Clips[name]
		tracks := 0
		for _, tr := range clip.Tracks {
			if tr != nil {
				tracks++
			}
		}
		fmt.Printf("  %-24s %6.3fs  %d tracks\n", name, clip.Duration, tracks)
	}
}

func cmdDump(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: steptool dump <content> <rig.yaml>")
		os.Exit(1)
	}
	rig, err := openContent(args[0]).LoadRig(args[1])
	if err != nil {
		fail(err)
	}

	cfg := spew.NewDefaultConfig()
	cfg.DisableCapacities = true
	cfg.DisablePointerAddresses = true
	fmt.Println(cfg.Sdump(rig.Skeleton.Bones))
	if rig.Skin != nil {
		fmt.Println(cfg.Sdump(rig.Skin.Bones))
	}
}

func cmdRegions(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: steptool regions <content> <collision.gltf>")
		os.Exit(1)
	}
	def := config.Default()
	regions, err := openContent(args[0]).LoadRegions(args[1], def.Level.WallPrefix, def.Level.DoorPrefix)
	if err != nil {
		fail(err)
	}

	fmt.Printf("Regions: %d\n", regions.Len())
	for _, name := range regions.Names() {
		r, _ := regions.Region(name)
		kind := "floor"
		switch {
		case regions.IsWall(name):
			kind = "wall"
		case regions.IsDoor(name):
			kind = "door"
			if id, ok := regions.DoorID(name); ok {
				kind = fmt.Sprintf("door %d", id)
			}
		}
		fmt.Printf("  %-24s %-8s %5d triangles\n", name, kind, len(r.Triangles))
	}
}

func cmdClassify(args []string) {
	if len(args) < 4 {
		fmt.Fprintln(os.Stderr, "Usage: steptool classify <content> <collision.gltf> <x> <z>")
		os.Exit(1)
	}
	x, err := strconv.ParseFloat(args[2], 32)
	if err != nil {
		fail(err)
	}
	z, err := strconv.ParseFloat(args[3], 32)
	if err != nil {
		fail(err)
	}
	def := config.Default()
	regions, err := openContent(args[0]).LoadRegions(args[1], def.Level.WallPrefix, def.Level.DoorPrefix)
	if err != nil {
		fail(err)
	}

	name, ok := regions.Classify(math.Vec2{X: float32(x), Y: float32(z)})
	if !ok {
		fmt.Println("(off the floor plan)")
		os.Exit(2)
	}
	fmt.Println(name)
}

func cmdWalk(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: steptool walk <content> <seconds>")
		os.Exit(1)
	}
	seconds, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fail(err)
	}

	cfg := config.Default()
	cfg.Content.Dir = args[0]
	s, err := sim.Load(cfg, openContent(args[0]), nil)
	if err != nil {
		fail(err)
	}

	const dt = 1.0 / 60
	in := locomotion.Input{DesiredSpeed: cfg.Character.WalkSpeed}
	ticks := int(seconds / dt)
	for i := 0; i <= ticks; i++ {
		if i%30 == 0 {
			p := s.Character.Position()
			fmt.Printf("%6.2fs  %-14s (%8.2f, %8.2f)  %-12s door %d\n",
				float64(i)*dt, s.Character.State(), p.X, p.Z,
				s.Character.Region(), s.Character.Doors().OpenDoor())
		}
		s.Tick(dt, in)
	}
}

func cmdConfig(args []string) {
	cfg := config.Default()
	if len(args) == 0 {
		if err := cfg.Save(); err != nil {
			fail(err)
		}
		fmt.Println(filepath.Join(config.ConfigDir(), "config.yaml"))
		return
	}
	if err := cfg.SaveTo(args[0]); err != nil {
		fail(err)
	}
	fmt.Println(args[0])
}
