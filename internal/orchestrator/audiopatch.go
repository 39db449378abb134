package orchestrator

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/provide-io/papers-modkit/internal/assetsfile"
	perr "github.com/provide-io/papers-modkit/internal/errors"
)

// moddedResourceName is the fixed sibling resource file every staged
// audio patch is appended to. Its length (23) falls inside spec.md §9's
// [21, 24] invariant, so every patched AudioClip's AlignedString source
// name encodes to the same 28 bytes regardless of which file is chosen.
const moddedResourceName = "modded_assets0.resource"

// audioPatchEntry is one element of audio_patches.json, per spec.md §6.
type audioPatchEntry struct {
	ObjectName        string  `json:"objectName"`
	PatchedPath       string  `json:"patchedPath"`
	LoadType          int32   `json:"loadType"`
	Channels          int32   `json:"channels"`
	Frequency         int32   `json:"frequency"`
	BitsPerSample     int32   `json:"bitsPerSample"`
	Length            float32 `json:"length"`
	IsTrackerFormat   bool    `json:"isTrackerFormat"`
	SubsoundIndex     int32   `json:"subsoundIndex"`
	PreloadAudioData  bool    `json:"preloadAudioData"`
	LoadInBackground  bool    `json:"loadInBackground"`
	Legacy3D          bool    `json:"legacy3d"`
	CompressionFormat string  `json:"compressionFormat"`
}

var compressionFormatsByName = map[string]assetsfile.AudioCompressionFormat{
	"pcm":     assetsfile.CompressionPCM,
	"vorbis":  assetsfile.CompressionVorbis,
	"adpcm":   assetsfile.CompressionADPCM,
	"mp3":     assetsfile.CompressionMP3,
	"psmvag":  assetsfile.CompressionVAG,
	"hevag":   assetsfile.CompressionHEVAG,
	"xma":     assetsfile.CompressionXMA,
	"aac":     assetsfile.CompressionAAC,
	"gcadpcm": assetsfile.CompressionGCADPCM,
	"atrac9":  assetsfile.CompressionATRAC9,
}

// loadAudioPatches parses descriptorPath. A missing file is not an error:
// audio patching is optional per spec.md §4.8 step 4.
func loadAudioPatches(descriptorPath string) ([]audioPatchEntry, error) {
	data, err := os.ReadFile(descriptorPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %q: %w", descriptorPath, perr.ErrIoError)
	}
	var entries []audioPatchEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing %q: %w: %v", descriptorPath, perr.ErrMalformedInput, err)
	}
	return entries, nil
}

// existingAudioClipNames reads every AudioClip object's name, returning a
// map from object_name to path_id so audio patch entries can be matched
// to the object they replace.
func existingAudioClipNames(src io.ReaderAt, order binary.ByteOrder, offsetFirstFile uint64, resolved []assetsfile.ResolvedObject) (map[string]int64, error) {
	out := make(map[string]int64)
	for _, obj := range resolved {
		if obj.ClassID != assetsfile.ClassAudioClip {
			continue
		}
		sr := io.NewSectionReader(src, int64(offsetFirstFile+obj.ByteStart), int64(obj.ByteSize))
		clip, _, err := assetsfile.ReadAudioClip(sr, order, 0)
		if err != nil {
			return nil, err
		}
		out[clip.ObjectName] = obj.PathID
	}
	return out, nil
}

// stageAudioPatches appends each entry's .fsb bytes (resolved relative to
// descriptorDir) to resourcePath and returns the replacement AudioClip for
// every matched object, keyed by path_id, per spec.md §4.8 step 4.
func stageAudioPatches(entries []audioPatchEntry, descriptorDir, resourcePath string, existing map[string]int64) (audioPatchSet, error) {
	out := make(audioPatchSet)
	if len(entries) == 0 {
		return out, nil
	}

	f, err := os.Create(resourcePath)
	if err != nil {
		return nil, fmt.Errorf("creating %q: %w", resourcePath, perr.ErrIoError)
	}
	defer f.Close()

	var offset int64
	for _, e := range entries {
		pathID, ok := existing[e.ObjectName]
		if !ok {
			return nil, fmt.Errorf("audio_patches.json references unknown object %q: %w", e.ObjectName, perr.ErrInputError)
		}

		format, ok := compressionFormatsByName[e.CompressionFormat]
		if !ok {
			return nil, fmt.Errorf("audio_patches.json entry %q has unknown compressionFormat %q: %w", e.ObjectName, e.CompressionFormat, perr.ErrUnsupportedFormat)
		}

		fsbPath := e.PatchedPath
		if filepath.Ext(fsbPath) != ".fsb" {
			return nil, fmt.Errorf("audio_patches.json entry %q has non-.fsb patchedPath %q: %w", e.ObjectName, e.PatchedPath, perr.ErrInputError)
		}
		if !filepath.IsAbs(fsbPath) {
			fsbPath = filepath.Join(descriptorDir, fsbPath)
		}
		data, err := os.ReadFile(fsbPath)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", fsbPath, perr.ErrIoError)
		}
		if _, err := f.Write(data); err != nil {
			return nil, fmt.Errorf("writing %q: %w", resourcePath, perr.ErrIoError)
		}

		out[pathID] = &assetsfile.AudioClip{
			ObjectName:        e.ObjectName,
			LoadType:          e.LoadType,
			Channels:          e.Channels,
			Frequency:         e.Frequency,
			BitsPerSample:     e.BitsPerSample,
			Length:            e.Length,
			IsTrackerFormat:   e.IsTrackerFormat,
			SubsoundIndex:     e.SubsoundIndex,
			PreloadAudioData:  e.PreloadAudioData,
			LoadInBackground:  e.LoadInBackground,
			Legacy3D:          e.Legacy3D,
			CompressionFormat: format,
			Resource: assetsfile.StreamedResource{
				Source: moddedResourceName,
				Offset: offset,
				Size:   int64(len(data)),
			},
		}
		offset += int64(len(data))
	}

	return out, f.Close()
}
