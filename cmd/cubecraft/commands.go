package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"text/tabwriter"

	"cubecraft/internal/block"
	"cubecraft/internal/game"
	"cubecraft/internal/input"
	"cubecraft/internal/meshing"
	"cubecraft/internal/preview"
	"cubecraft/internal/profiling"
	"cubecraft/internal/world"

	"github.com/xlab/closer"
)

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	return fs
}

// oneName parses fs and returns its single required world name.
func oneName(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%w: %s wants one world name", errUsage, fs.Name())
	}
	return fs.Arg(0), nil
}

func (e *env) cmdNew(args []string) error {
	fs := newFlags("new")
	seed := fs.String("seed", "", "seed text, up to 15 characters")
	name, err := oneName(fs, args)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(e.store.Dir, 0o755); err != nil {
		return err
	}
	sf, err := e.store.Create(name, *seed)
	if err != nil {
		return err
	}
	e.logger.Printf("created %q (id %s, world seed %d)", sf.Name, sf.ID, sf.WorldSeed())
	return nil
}

func (e *env) cmdList(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("%w: list takes no arguments", errUsage)
	}
	headers, err := e.store.List()
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tSEED\tID")
	for _, h := range headers {
		fmt.Fprintf(tw, "%s\t%q\t%s\n", h.Name, h.Seed, h.ID)
	}
	if ferr := tw.Flush(); ferr != nil {
		return ferr
	}
	// Unreadable saves are reported after the readable ones are listed.
	return err
}

func (e *env) cmdDelete(args []string) error {
	name, err := oneName(newFlags("delete"), args)
	if err != nil {
		return err
	}
	if err := e.store.Delete(name); err != nil {
		return err
	}
	e.logger.Printf("deleted %q", name)
	return nil
}

func (e *env) cmdInfo(args []string) error {
	name, err := oneName(newFlags("info"), args)
	if err != nil {
		return err
	}
	sf, err := e.store.Load(name)
	if err != nil {
		return err
	}
	edits := 0
	for _, m := range sf.Modifications {
		edits += len(m.Blocks)
	}
	fmt.Printf("name:      %s\n", sf.Name)
	fmt.Printf("id:        %s\n", sf.ID)
	fmt.Printf("seed:      %q (world seed %d)\n", sf.Seed, sf.WorldSeed())
	fmt.Printf("spawn:     %v\n", sf.Spawn)
	fmt.Printf("modified:  %d chunks, %d edits\n", len(sf.Modifications), edits)
	for i, s := range sf.Inventory {
		if !s.Empty() {
			fmt.Printf("slot %d:    %d x %s\n", i+1, s.Count, s.Type)
		}
	}
	return nil
}

func (e *env) cmdSet(args []string) error {
	fs := newFlags("set")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 5 {
		return fmt.Errorf("%w: set wants <name> <x> <y> <z> <block>", errUsage)
	}
	var pos [3]int
	for i := range pos {
		v, err := strconv.Atoi(fs.Arg(i + 1))
		if err != nil {
			return fmt.Errorf("%w: coordinate %q", errUsage, fs.Arg(i+1))
		}
		pos[i] = v
	}
	if pos[1] < 0 || pos[1] >= world.ChunkHeight {
		return fmt.Errorf("%w: y %d outside [0, %d)", errUsage, pos[1], world.ChunkHeight)
	}
	t, err := block.Parse(fs.Arg(4))
	if err != nil {
		return err
	}

	sf, err := e.store.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	w, err := game.OpenWorld(e.settings, sf, e.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	old := w.Block(pos[0], pos[1], pos[2])
	if err := w.SetBlock(pos[0], pos[1], pos[2], t); err != nil {
		// The edit stands even when a mesh exceeds the face budget.
		if !errors.Is(err, meshing.ErrFaceLimit) {
			return err
		}
		e.logger.Printf("warning: %v", err)
	}
	sf.Modifications = w.Modifications()
	if err := e.store.Save(sf); err != nil {
		return err
	}
	e.logger.Printf("%v: %s -> %s", pos, old, t)
	return nil
}

func (e *env) cmdPreview(args []string) error {
	fs := newFlags("preview")
	radius := fs.Int("radius", 2, "chunks around the centre chunk")
	scale := fs.Int("scale", 4, "pixels per block column")
	out := fs.String("o", "", "output file (default <name>.png)")
	caption := fs.Bool("caption", true, "add a title bar")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 && fs.NArg() != 3 {
		return fmt.Errorf("%w: preview wants <name> [cx cz]", errUsage)
	}
	if *radius < 0 || *radius > 64 || *scale < 1 || *scale > 16 {
		return fmt.Errorf("%w: radius must be in [0, 64] and scale in [1, 16]", errUsage)
	}

	sf, err := e.store.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	cx, cz := world.ToChunkCoord(sf.Spawn[0]), world.ToChunkCoord(sf.Spawn[2])
	if fs.NArg() == 3 {
		if cx, err = strconv.Atoi(fs.Arg(1)); err != nil {
			return fmt.Errorf("%w: chunk x %q", errUsage, fs.Arg(1))
		}
		if cz, err = strconv.Atoi(fs.Arg(2)); err != nil {
			return fmt.Errorf("%w: chunk z %q", errUsage, fs.Arg(2))
		}
	}

	w, err := game.OpenWorld(e.settings, sf, e.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	img := preview.Render(w, cx, cz, *radius, *scale)
	if *caption {
		title := fmt.Sprintf("%s  seed %q  chunk %d,%d", sf.Name, sf.Seed, cx, cz)
		if img, err = preview.Caption(img, title, 14); err != nil {
			return err
		}
	}
	path := *out
	if path == "" {
		path = sf.Name + ".png"
	}
	if err := preview.WritePNG(path, img); err != nil {
		return err
	}
	e.logger.Printf("wrote %s (%dx%d)", path, img.Bounds().Dx(), img.Bounds().Dy())
	return nil
}

const defaultScript = "forward 40; jump; forward 10; look 90 -30; break; place; look -180; forward 40"

func (e *env) cmdWalk(args []string) error {
	fs := newFlags("walk")
	src := fs.String("script", defaultScript, "';'-separated steps")
	renderRange := fs.Int("range", 0, "render range in chunks (0 keeps the config value)")
	name, err := oneName(fs, args)
	if err != nil {
		return err
	}
	script, err := input.Parse(*src)
	if err != nil {
		return err
	}
	if *renderRange > 0 {
		e.settings.SetRenderRange(*renderRange)
	}
	if e.settings.Log.Verbose {
		n := e.settings.VisibleChunks()
		e.logger.Printf("render range %d, %dx%d chunks", e.settings.World.RenderRange, n, n)
	}

	s, err := game.Open(e.store, name, e.settings, e.logger)
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	halt := sync.OnceFunc(func() { close(stop) })
	closeSession := sync.OnceValue(s.Close)
	closer.Bind(func() {
		halt()
		<-done
		if err := closeSession(); err != nil {
			e.logger.Println(err)
		}
	})

	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			in, ok := script.Next()
			if !ok {
				return
			}
			meshes, err := s.Frame(in)
			if e.settings.Log.Verbose {
				if err != nil {
					e.logger.Printf("frame %d: %v", s.Frames(), err)
				}
				e.logger.Printf("frame %d: pos %v %s, %d meshes", s.Frames(), s.Player.Position, s.Player.Body.State, len(meshes))
			}
		}
	}()
	<-done

	p := s.Player
	e.logger.Printf("walked %d frames to %v, selection %+v", s.Frames(), p.SpawnPoint(), p.Selection)
	st := s.World.Stats()
	e.logger.Printf("chunks: %d hits, %d misses, %d evictions, %d generated, %d meshes built",
		st.Hits, st.Misses, st.Evictions, profiling.Counter("world.chunks_generated"), st.MeshBuilds)
	e.logger.Printf("last frame: %s in world code", profiling.SumWithPrefix("world."))
	return closeSession()
}
