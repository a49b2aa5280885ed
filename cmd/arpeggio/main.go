package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"

	"github.com/vsariola/arpeggio"
	"github.com/vsariola/arpeggio/engine"
	"github.com/vsariola/arpeggio/engine/gomidi"
	"github.com/vsariola/arpeggio/oto"
	"github.com/vsariola/arpeggio/synth"
	"github.com/vsariola/arpeggio/version"
)

const samplerate = 44100

func main() {
	list := flag.Bool("l", false, "List the available MIDI ports and exit.")
	inPrefix := flag.String("i", "", "Name prefix of the MIDI input port to listen to. By default, the first port.")
	outPrefix := flag.String("o", "", "Name prefix of the MIDI output port to send the arpeggiated notes to. By default, the first port.")
	audition := flag.Bool("p", false, "Play the arpeggiated notes through the built-in synth instead of a MIDI output.")
	setupFile := flag.String("y", "", "Setup `file` (YAML) to load.")
	pattern := flag.String("pattern", "up", "Pattern: up, down, updown, downup, converge, diverge, random, walk, asplayed or chord.")
	octaves := flag.Int("octaves", 1, "Octave range, 1 to 4.")
	octaveMode := flag.String("octavemode", "sequential", "Octave ordering: sequential or interleaved.")
	bpm := flag.Float64("bpm", 120, "Tempo in beats per minute.")
	division := flag.Float64("division", 0.25, "Step length in quarter notes: 1 = quarters, 0.5 = eighths, 0.25 = sixteenths.")
	gate := flag.Float64("gate", 0.5, "Fraction of the step each note is held, 0 to 1.")
	channel := flag.Int("channel", 0, "MIDI channel for the emitted notes, 0 to 15.")
	seed := flag.Int64("seed", 1, "Seed for the random and walk patterns.")
	debug := flag.Bool("debug", false, "Log the incoming note events.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *debug {
		log.SetLevel(log.DebugLevel)
	}
	setup := arpeggio.DefaultSetup()
	if *setupFile != "" {
		f, err := os.Open(*setupFile)
		if err != nil {
			log.Fatalf("could not open setup: %v", err)
		}
		setup, err = arpeggio.ReadSetup(f)
		f.Close()
		if err != nil {
			log.Fatalf("could not read setup: %v", err)
		}
	}
	// explicitly given flags override the setup file
	var err error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "pattern":
			setup.Pattern, err = arpeggio.ParsePattern(*pattern)
		case "octavemode":
			setup.OctaveMode, err = arpeggio.ParseOctaveMode(*octaveMode)
		case "octaves":
			setup.OctaveRange = *octaves
		case "bpm":
			setup.BPM = *bpm
		case "division":
			setup.Division = *division
		case "gate":
			setup.Gate = *gate
		case "channel":
			setup.Channel = *channel
		case "seed":
			setup.Seed = *seed
		}
		if err != nil {
			log.Fatalf("invalid flag -%v: %v", f.Name, err)
		}
	})
	midiContext := gomidi.NewContext(samplerate)
	defer midiContext.Close()
	if *list {
		fmt.Println("MIDI inputs:")
		for _, name := range midiContext.InputPorts() {
			fmt.Printf("  %v\n", name)
		}
		fmt.Println("MIDI outputs:")
		for _, name := range midiContext.OutputPorts() {
			fmt.Printf("  %v\n", name)
		}
		return
	}
	if err := midiContext.OpenInputBy(*inPrefix, *inPrefix == ""); err != nil {
		log.Fatalf("could not open MIDI input: %v", err)
	}
	sigint := make(chan os.Signal, 1)
	signal.Notify(sigint, os.Interrupt)
	if *audition {
		player := engine.NewPlayer(setup, nil, samplerate)
		stream := engine.NewStream(player, synth.New(samplerate), midiContext)
		var audioContext arpeggio.AudioContext
		audioContext, err = oto.NewContext(samplerate)
		if err != nil {
			log.Fatalf("could not acquire audio context: %v", err)
		}
		defer audioContext.Close()
		audioPlayer := audioContext.Play(stream)
		defer audioPlayer.Close()
		log.WithFields(log.Fields{"pattern": setup.Pattern, "bpm": setup.BPM}).Info("auditioning; ctrl-c quits")
		<-sigint
		return
	}
	if err := midiContext.OpenOutputBy(*outPrefix, *outPrefix == ""); err != nil {
		log.Fatalf("could not open MIDI output: %v", err)
	}
	player := engine.NewPlayer(setup, midiContext, samplerate)
	quit := make(chan struct{})
	done := make(chan struct{})
	go func() {
		engine.Loop(player, midiContext, quit)
		close(done)
	}()
	log.WithFields(log.Fields{"pattern": setup.Pattern, "bpm": setup.BPM}).Info("arpeggiating; ctrl-c quits")
	<-sigint
	close(quit)
	<-done
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "MIDI arpeggiator.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
