/*
NAME
  mix_presentation.go

DESCRIPTION
  mix_presentation.go implements the Mix Presentation descriptor OBU: a
  set of language-tagged annotations, one or more sub-mixes binding
  audio elements to a rendering config and output gain, and a trailing
  tags block.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package obu

import (
	"fmt"

	"github.com/ausocean/iamf/bitio"
	"github.com/ausocean/iamf/iamferr"
	"golang.org/x/text/language"
)

// HeadphonesMode selects whether a sub-mix's stereo layout expects a
// binaural renderer.
type HeadphonesMode uint8

// Defined headphones modes.
const (
	HeadphonesModeStereo   HeadphonesMode = 0
	HeadphonesModeBinaural HeadphonesMode = 1
)

// ElementGainOffsetConfig carries a fixed Q7.8 gain offset applied to one
// audio element within a sub-mix, ahead of any parameter-driven mix gain.
// This supplements the wire format with a feature present in reference
// mix-presentation renderers but not itself parameter-automatable.
type ElementGainOffsetConfig struct {
	GainOffset int16 // Q7.8.
}

// RenderingConfig is the per-element rendering metadata within a sub-mix.
type RenderingConfig struct {
	HeadphonesMode  HeadphonesMode
	BinauralProfile uint8
	GainOffset      *ElementGainOffsetConfig
}

// SubMixElement binds one Audio Element (by id) into a sub-mix, with its
// annotations, rendering config, and element mix-gain parameter.
type SubMixElement struct {
	AudioElementID uint32
	Annotations    map[string]string // BCP-47 language tag -> annotation text.
	Rendering      RenderingConfig
	MixGain        ParameterDefinition
}

// Layout identifies one loudspeaker layout a sub-mix reports loudness for.
type Layout struct {
	LoudspeakerLayout  LoudspeakerLayout
	IntegratedLoudness int16 // Q7.8 LKFS.
	DigitalPeak        int16 // Q7.8 dBFS.
	TruePeak           *int16
}

// SubMix is one rendering of a set of audio elements to a set of output
// layouts, with an output mix-gain parameter shared across all layouts.
type SubMix struct {
	Elements   []SubMixElement
	OutputGain ParameterDefinition
	Layouts    []Layout
}

// Tag is a freeform, duplicable key/value annotation in the trailing tags
// block, or the single reserved content_language tag.
type Tag struct {
	Key   string
	Value string
}

// MixPresentation is the descriptor OBU for one renderable mix: a set of
// sub-mixes plus the language-tagged annotations describing it.
type MixPresentation struct {
	ID          uint32
	Annotations map[string]string // BCP-47 language tag -> presentation name.
	SubMixes    []SubMix
	Tags        []Tag
}

const contentLanguageTagKey = "content_language"

// Marshal validates m and writes its payload to w.
func (m *MixPresentation) Marshal(w *bitio.Writer) error {
	if len(m.SubMixes) == 0 {
		return iamferr.New(iamferr.InvalidInput, "MixPresentation.Marshal", "at least one sub-mix is required")
	}
	seenElements := map[uint32]bool{}
	for i := range m.SubMixes {
		for _, e := range m.SubMixes[i].Elements {
			if seenElements[e.AudioElementID] {
				return iamferr.New(iamferr.InvalidInput, "MixPresentation.Marshal", "audio_element_id %d referenced by more than one sub-mix", e.AudioElementID)
			}
			seenElements[e.AudioElementID] = true
		}
		if len(m.SubMixes[i].Elements) == 0 {
			return iamferr.New(iamferr.InvalidInput, "MixPresentation.Marshal", "sub-mix %d has no audio elements", i)
		}
		if err := validateStereoLayoutPresent(m.SubMixes[i].Layouts); err != nil {
			return err
		}
	}

	if err := w.WriteUleb128(m.ID); err != nil {
		return iamferr.Wrap(err, "MixPresentation.Marshal: mix_presentation_id")
	}
	if err := marshalLanguageTaggedAnnotations(w, m.Annotations); err != nil {
		return err
	}

	if err := w.WriteUleb128(uint32(len(m.SubMixes))); err != nil {
		return iamferr.Wrap(err, "MixPresentation.Marshal: num_sub_mixes")
	}
	for i := range m.SubMixes {
		if err := m.SubMixes[i].marshal(w); err != nil {
			return err
		}
	}

	return marshalTags(w, m.Tags)
}

func validateStereoLayoutPresent(layouts []Layout) error {
	if len(layouts) == 0 {
		return iamferr.New(iamferr.InvalidInput, "validateStereoLayoutPresent", "at least one layout is required")
	}
	for _, l := range layouts {
		if l.LoudspeakerLayout == LayoutStereo {
			return nil
		}
	}
	return iamferr.New(iamferr.InvalidInput, "validateStereoLayoutPresent", "a stereo loudspeaker layout is required")
}

func marshalLanguageTaggedAnnotations(w *bitio.Writer, annotations map[string]string) error {
	tags := make([]string, 0, len(annotations))
	for tag := range annotations {
		if _, err := language.Parse(tag); err != nil {
			return iamferr.Wrap(err, fmt.Sprintf("marshalLanguageTaggedAnnotations: invalid language tag %q", tag))
		}
		tags = append(tags, tag)
	}
	if err := w.WriteUleb128(uint32(len(tags))); err != nil {
		return iamferr.Wrap(err, "marshalLanguageTaggedAnnotations: count_label")
	}
	for _, tag := range tags {
		if err := w.WriteString(tag); err != nil {
			return iamferr.Wrap(err, "marshalLanguageTaggedAnnotations: language_tag")
		}
	}
	for _, tag := range tags {
		if err := w.WriteString(annotations[tag]); err != nil {
			return iamferr.Wrap(err, "marshalLanguageTaggedAnnotations: annotation")
		}
	}
	return nil
}

func (s *SubMix) marshal(w *bitio.Writer) error {
	if err := w.WriteUleb128(uint32(len(s.Elements))); err != nil {
		return iamferr.Wrap(err, "SubMix.marshal: num_audio_elements")
	}
	for i := range s.Elements {
		if err := s.Elements[i].marshal(w); err != nil {
			return err
		}
	}
	if err := s.OutputGain.Marshal(w); err != nil {
		return err
	}
	if err := w.WriteUleb128(uint32(len(s.Layouts))); err != nil {
		return iamferr.Wrap(err, "SubMix.marshal: num_layouts")
	}
	for _, l := range s.Layouts {
		if err := l.marshal(w); err != nil {
			return err
		}
	}
	return nil
}

func (e *SubMixElement) marshal(w *bitio.Writer) error {
	if err := w.WriteUleb128(e.AudioElementID); err != nil {
		return iamferr.Wrap(err, "SubMixElement.marshal: audio_element_id")
	}
	if err := marshalLanguageTaggedAnnotations(w, e.Annotations); err != nil {
		return err
	}
	if err := w.WriteU(1, uint64(e.Rendering.HeadphonesMode)); err != nil {
		return err
	}
	if err := w.WriteU(7, uint64(e.Rendering.BinauralProfile)); err != nil {
		return err
	}
	if err := w.WriteU(1, boolBit(e.Rendering.GainOffset != nil)); err != nil {
		return err
	}
	if e.Rendering.GainOffset != nil {
		if err := w.WriteS(16, int64(e.Rendering.GainOffset.GainOffset)); err != nil {
			return err
		}
	}
	return e.MixGain.Marshal(w)
}

func (l *Layout) marshal(w *bitio.Writer) error {
	if err := w.WriteU(4, uint64(l.LoudspeakerLayout)); err != nil {
		return err
	}
	const reserved = 0
	if err := w.WriteU(4, reserved); err != nil {
		return err
	}
	if err := w.WriteS(16, int64(l.IntegratedLoudness)); err != nil {
		return err
	}
	if err := w.WriteS(16, int64(l.DigitalPeak)); err != nil {
		return err
	}
	if err := w.WriteU(1, boolBit(l.TruePeak != nil)); err != nil {
		return err
	}
	const padding = 0
	if err := w.WriteU(7, padding); err != nil {
		return err
	}
	if l.TruePeak != nil {
		if err := w.WriteS(16, int64(*l.TruePeak)); err != nil {
			return err
		}
	}
	return nil
}

func marshalTags(w *bitio.Writer, tags []Tag) error {
	contentLang := 0
	for _, tag := range tags {
		if tag.Key == contentLanguageTagKey {
			contentLang++
		}
	}
	if contentLang > 1 {
		return iamferr.New(iamferr.InvalidInput, "marshalTags", "at most one %s tag is allowed", contentLanguageTagKey)
	}
	if err := w.WriteUleb128(uint32(len(tags))); err != nil {
		return iamferr.Wrap(err, "marshalTags: num_tags")
	}
	for _, tag := range tags {
		if err := w.WriteString(tag.Key); err != nil {
			return err
		}
		if err := w.WriteString(tag.Value); err != nil {
			return err
		}
	}
	return nil
}

// WriteOBU writes the full OBU (header + payload) for m to w.
func (m *MixPresentation) WriteOBU(w *bitio.Writer) error {
	body := bitio.NewWriter()
	if err := m.Marshal(body); err != nil {
		return err
	}
	return WriteHeader(w, &Header{Type: TypeMixPresentation}, body.Bytes())
}

// ParseMixPresentation parses a Mix Presentation OBU's payload.
func ParseMixPresentation(payload []byte) (*MixPresentation, error) {
	r := bitio.NewReader(payload)

	id, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseMixPresentation: mix_presentation_id")
	}
	annotations, err := parseLanguageTaggedAnnotations(r)
	if err != nil {
		return nil, err
	}

	numSubMixes, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "ParseMixPresentation: num_sub_mixes")
	}
	if numSubMixes == 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseMixPresentation", "at least one sub-mix is required")
	}
	subMixes := make([]SubMix, numSubMixes)
	seenElements := map[uint32]bool{}
	for i := range subMixes {
		s, err := parseSubMix(r)
		if err != nil {
			return nil, err
		}
		for _, e := range s.Elements {
			if seenElements[e.AudioElementID] {
				return nil, iamferr.New(iamferr.InvalidInput, "ParseMixPresentation", "audio_element_id %d referenced by more than one sub-mix", e.AudioElementID)
			}
			seenElements[e.AudioElementID] = true
		}
		subMixes[i] = *s
	}

	tags, err := parseTags(r)
	if err != nil {
		return nil, err
	}

	if r.BitsRemaining() != 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "ParseMixPresentation", "%d trailing bits after payload", r.BitsRemaining())
	}
	return &MixPresentation{ID: id, Annotations: annotations, SubMixes: subMixes, Tags: tags}, nil
}

func parseLanguageTaggedAnnotations(r *bitio.Reader) (map[string]string, error) {
	n, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseLanguageTaggedAnnotations: count_label")
	}
	langs := make([]string, n)
	for i := range langs {
		s, err := r.ReadString()
		if err != nil {
			return nil, iamferr.Wrap(err, "parseLanguageTaggedAnnotations: language_tag")
		}
		if _, err := language.Parse(s); err != nil {
			return nil, iamferr.Wrap(err, fmt.Sprintf("parseLanguageTaggedAnnotations: invalid language tag %q", s))
		}
		langs[i] = s
	}
	out := make(map[string]string, n)
	for _, lang := range langs {
		s, err := r.ReadString()
		if err != nil {
			return nil, iamferr.Wrap(err, "parseLanguageTaggedAnnotations: annotation")
		}
		out[lang] = s
	}
	return out, nil
}

func parseSubMix(r *bitio.Reader) (*SubMix, error) {
	numElements, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseSubMix: num_audio_elements")
	}
	if numElements == 0 {
		return nil, iamferr.New(iamferr.InvalidInput, "parseSubMix", "sub-mix has no audio elements")
	}
	elements := make([]SubMixElement, numElements)
	for i := range elements {
		e, err := parseSubMixElement(r)
		if err != nil {
			return nil, err
		}
		elements[i] = *e
	}
	outputGain, err := ParseParameterDefinition(r, 0)
	if err != nil {
		return nil, err
	}
	numLayouts, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseSubMix: num_layouts")
	}
	layouts := make([]Layout, numLayouts)
	sawStereo := false
	for i := range layouts {
		l, err := parseLayout(r)
		if err != nil {
			return nil, err
		}
		if l.LoudspeakerLayout == LayoutStereo {
			sawStereo = true
		}
		layouts[i] = *l
	}
	if !sawStereo {
		return nil, iamferr.New(iamferr.InvalidInput, "parseSubMix", "a stereo loudspeaker layout is required")
	}
	return &SubMix{Elements: elements, OutputGain: *outputGain, Layouts: layouts}, nil
}

func parseSubMixElement(r *bitio.Reader) (*SubMixElement, error) {
	id, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseSubMixElement: audio_element_id")
	}
	annotations, err := parseLanguageTaggedAnnotations(r)
	if err != nil {
		return nil, err
	}
	mode, err := r.ReadU(1)
	if err != nil {
		return nil, err
	}
	profile, err := r.ReadU(7)
	if err != nil {
		return nil, err
	}
	hasGainOffset, err := r.ReadU(1)
	if err != nil {
		return nil, err
	}
	var gainOffset *ElementGainOffsetConfig
	if hasGainOffset == 1 {
		v, err := r.ReadS(16)
		if err != nil {
			return nil, err
		}
		gainOffset = &ElementGainOffsetConfig{GainOffset: int16(v)}
	}
	mixGain, err := ParseParameterDefinition(r, 0)
	if err != nil {
		return nil, err
	}
	return &SubMixElement{
		AudioElementID: id,
		Annotations:    annotations,
		Rendering: RenderingConfig{
			HeadphonesMode:  HeadphonesMode(mode),
			BinauralProfile: uint8(profile),
			GainOffset:      gainOffset,
		},
		MixGain: *mixGain,
	}, nil
}

func parseLayout(r *bitio.Reader) (*Layout, error) {
	layout, err := r.ReadU(4)
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU(4); err != nil {
		return nil, err
	}
	integrated, err := r.ReadS(16)
	if err != nil {
		return nil, err
	}
	peak, err := r.ReadS(16)
	if err != nil {
		return nil, err
	}
	hasTruePeak, err := r.ReadU(1)
	if err != nil {
		return nil, err
	}
	if _, err := r.ReadU(7); err != nil {
		return nil, err
	}
	l := &Layout{
		LoudspeakerLayout:  LoudspeakerLayout(layout),
		IntegratedLoudness: int16(integrated),
		DigitalPeak:        int16(peak),
	}
	if hasTruePeak == 1 {
		v, err := r.ReadS(16)
		if err != nil {
			return nil, err
		}
		tp := int16(v)
		l.TruePeak = &tp
	}
	return l, nil
}

func parseTags(r *bitio.Reader) ([]Tag, error) {
	n, err := r.ReadUleb128()
	if err != nil {
		return nil, iamferr.Wrap(err, "parseTags: num_tags")
	}
	tags := make([]Tag, n)
	contentLang := 0
	for i := range tags {
		key, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		value, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		if key == contentLanguageTagKey {
			contentLang++
		}
		tags[i] = Tag{Key: key, Value: value}
	}
	if contentLang > 1 {
		return nil, iamferr.New(iamferr.InvalidInput, "parseTags", "at most one %s tag is allowed", contentLanguageTagKey)
	}
	return tags, nil
}
