package catalog

// toolOrder fixes the catalogue listing order: image tools first, then video,
// audio, and 3D.
var toolOrder = []string{
	"generate_image",
	"transform_image",
	"inpaint_image",
	"upscale_image",
	"remove_background",
	"swap_face",
	"restyle_image",
	"sketch_to_image",
	"colorize_image",
	"generate_sticker",
	"segment_image",
	"estimate_depth",
	"generate_video",
	"animate_image",
	"restyle_video",
	"lipsync_video",
	"upscale_video",
	"generate_speech",
	"generate_music",
	"generate_sound_effect",
	"image_to_3d",
	"text_to_3d",
}

// Catalog holds the full set of operation descriptors. Built once at startup;
// read-only while serving.
type Catalog struct {
	ops   map[string]*Operation
	order []string
}

// New builds the default catalogue.
func New() *Catalog {
	ops := defaultOperations()
	c := &Catalog{ops: make(map[string]*Operation, len(ops))}
	for i := range ops {
		op := ops[i]
		c.ops[op.Name] = &op
	}
	c.order = make([]string, len(toolOrder))
	copy(c.order, toolOrder)
	return c
}

// Get returns the descriptor for a tool name.
func (c *Catalog) Get(name string) (*Operation, bool) {
	op, ok := c.ops[name]
	return op, ok
}

// List returns enabled descriptors in catalogue order. The returned order is
// stable across calls within a process lifetime.
func (c *Catalog) List() []*Operation {
	out := make([]*Operation, 0, len(c.order))
	for _, name := range c.order {
		if op, ok := c.ops[name]; ok && !op.Disabled {
			out = append(out, op)
		}
	}
	return out
}

// SetModel replaces the upstream model identifier for a tool. Intended for
// bootstrap overrides at startup; returns false for unknown tools.
func (c *Catalog) SetModel(name, model string) bool {
	op, ok := c.ops[name]
	if !ok || model == "" {
		return ok
	}
	op.Model = model
	return true
}

// SetDisabled marks a tool disabled (or re-enables it). Intended for bootstrap
// overrides at startup; returns false for unknown tools.
func (c *Catalog) SetDisabled(name string, disabled bool) bool {
	op, ok := c.ops[name]
	if !ok {
		return false
	}
	op.Disabled = disabled
	return true
}

func bound(v float64) *float64 { return &v }

// Shared field specs. Each value is copied into the operation maps, so
// per-operation help text can be overridden without aliasing.
func promptField(help string) FieldSpec {
	return FieldSpec{Type: TypeString, Required: true, Help: help}
}

func urlField(required bool, help string) FieldSpec {
	return FieldSpec{Type: TypeString, Required: required, Help: help}
}

func defaultOperations() []Operation {
	return []Operation{
		{
			Name:        "generate_image",
			Description: "Generate an image from a text prompt.",
			Model:       "fal-ai/flux/dev",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "generated",
			FileExt:     "png",
			ParamOrder:  []string{"prompt", "negative_prompt", "image_size", "num_images", "guidance_scale", "seed", "output_format"},
			Params: map[string]FieldSpec{
				"prompt":          promptField("Text description of the image to generate."),
				"negative_prompt": {Type: TypeString, Help: "What to avoid in the image."},
				"image_size": {Type: TypeString, Help: "Output resolution preset.",
					Enum: []string{"square_hd", "square", "portrait_4_3", "portrait_16_9", "landscape_4_3", "landscape_16_9"}},
				"num_images":     {Type: TypeInteger, Min: bound(1), Max: bound(4), Help: "How many images to generate."},
				"guidance_scale": {Type: TypeNumber, Min: bound(0), Max: bound(20), Help: "How closely to follow the prompt."},
				"seed":           {Type: TypeInteger, Help: "Seed for reproducible output."},
				"output_format":  {Type: TypeString, Enum: []string{"jpeg", "png", "webp"}, Help: "Image file format."},
			},
		},
		{
			Name:        "transform_image",
			Description: "Rework an existing image according to a text prompt.",
			Model:       "fal-ai/flux/dev/image-to-image",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "transformed",
			FileExt:     "png",
			ParamOrder:  []string{"image_url", "prompt", "strength", "seed", "output_format"},
			Params: map[string]FieldSpec{
				"image_url":     urlField(true, "URL of the source image."),
				"prompt":        promptField("How to transform the image."),
				"strength":      {Type: TypeNumber, Min: bound(0), Max: bound(1), Help: "How strongly to deviate from the source (0 keeps it, 1 replaces it)."},
				"seed":          {Type: TypeInteger, Help: "Seed for reproducible output."},
				"output_format": {Type: TypeString, Enum: []string{"jpeg", "png", "webp"}, Help: "Image file format."},
			},
		},
		{
			Name:        "inpaint_image",
			Description: "Repaint the masked region of an image from a text prompt.",
			Model:       "fal-ai/flux-lora/inpainting",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "inpainted",
			FileExt:     "png",
			ParamOrder:  []string{"image_url", "mask_url", "prompt", "seed"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the source image."),
				"mask_url":  urlField(true, "URL of the mask; white pixels are repainted."),
				"prompt":    promptField("What to paint inside the masked region."),
				"seed":      {Type: TypeInteger, Help: "Seed for reproducible output."},
			},
		},
		{
			Name:        "upscale_image",
			Description: "Upscale an image, enhancing resolution and detail.",
			Model:       "fal-ai/aura-sr",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "upscaled",
			FileExt:     "png",
			ParamOrder:  []string{"image_url", "upscaling_factor"},
			Params: map[string]FieldSpec{
				"image_url":        urlField(true, "URL of the image to upscale."),
				"upscaling_factor": {Type: TypeInteger, Min: bound(2), Max: bound(4), Help: "Multiplier applied to both dimensions."},
			},
		},
		{
			Name:        "remove_background",
			Description: "Remove the background from an image, leaving the subject on transparency.",
			Model:       "fal-ai/birefnet",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "cutout",
			FileExt:     "png",
			ParamOrder:  []string{"image_url"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the image to cut out."),
			},
		},
		{
			Name:        "swap_face",
			Description: "Swap the face in a base image with the face from another image.",
			Model:       "fal-ai/face-swap",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "faceswap",
			FileExt:     "png",
			ParamOrder:  []string{"base_image_url", "swap_image_url"},
			Params: map[string]FieldSpec{
				"base_image_url": urlField(true, "URL of the image whose face is replaced."),
				"swap_image_url": urlField(true, "URL of the image providing the new face."),
			},
		},
		{
			Name:        "restyle_image",
			Description: "Apply the style of a reference image to a source image.",
			Model:       "fal-ai/image-editing/style-transfer",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "restyled",
			FileExt:     "png",
			ParamOrder:  []string{"image_url", "style_image_url", "strength"},
			Params: map[string]FieldSpec{
				"image_url":       urlField(true, "URL of the image to restyle."),
				"style_image_url": urlField(true, "URL of the style reference image."),
				"strength":        {Type: TypeNumber, Min: bound(0), Max: bound(1), Help: "How strongly to apply the style."},
			},
		},
		{
			Name:        "sketch_to_image",
			Description: "Render a finished image from a rough sketch and a prompt.",
			Model:       "fal-ai/latent-consistency/sketch-to-image",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "rendered",
			FileExt:     "png",
			ParamOrder:  []string{"sketch_url", "prompt", "seed"},
			Params: map[string]FieldSpec{
				"sketch_url": urlField(true, "URL of the sketch image."),
				"prompt":     promptField("What the finished image should depict."),
				"seed":       {Type: TypeInteger, Help: "Seed for reproducible output."},
			},
		},
		{
			Name:        "colorize_image",
			Description: "Colorize a black-and-white photograph.",
			Model:       "fal-ai/ddcolor",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "colorized",
			FileExt:     "png",
			ParamOrder:  []string{"image_url"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the grayscale image."),
			},
		},
		{
			Name:        "generate_sticker",
			Description: "Turn a face photo into a sticker illustration.",
			Model:       "fal-ai/face-to-sticker",
			Kind:        KindImage,
			Latency:     LatencyShort,
			FilePrefix:  "sticker",
			FileExt:     "png",
			ParamOrder:  []string{"image_url", "prompt"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the face photo."),
				"prompt":    {Type: TypeString, Help: "Optional style hints for the sticker."},
			},
		},
		{
			Name:        "segment_image",
			Description: "Segment the objects in an image and return the mask data.",
			Model:       "fal-ai/sam2/image",
			Kind:        KindImage,
			Latency:     LatencyShort,
			Inspection:  true,
			FilePrefix:  "segmented",
			FileExt:     "png",
			ParamOrder:  []string{"image_url"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the image to segment."),
			},
		},
		{
			Name:        "estimate_depth",
			Description: "Estimate a depth map for an image.",
			Model:       "fal-ai/imageutils/depth",
			Kind:        KindImage,
			Latency:     LatencyShort,
			Inspection:  true,
			FilePrefix:  "depth",
			FileExt:     "png",
			ParamOrder:  []string{"image_url"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the image to analyze."),
			},
		},
		{
			Name:        "generate_video",
			Description: "Generate a short video clip from a text prompt.",
			Model:       "fal-ai/kling-video/v1/standard/text-to-video",
			Kind:        KindVideo,
			Latency:     LatencyLong,
			FilePrefix:  "video",
			FileExt:     "mp4",
			ParamOrder:  []string{"prompt", "duration", "aspect_ratio", "negative_prompt"},
			Params: map[string]FieldSpec{
				"prompt":          promptField("Text description of the video to generate."),
				"duration":        {Type: TypeString, Enum: []string{"5", "10"}, Help: "Clip length in seconds."},
				"aspect_ratio":    {Type: TypeString, Enum: []string{"16:9", "9:16", "1:1"}, Help: "Output aspect ratio."},
				"negative_prompt": {Type: TypeString, Help: "What to avoid in the video."},
			},
		},
		{
			Name:        "animate_image",
			Description: "Animate a still image into a short video clip.",
			Model:       "fal-ai/kling-video/v1/standard/image-to-video",
			Kind:        KindVideo,
			Latency:     LatencyLong,
			FilePrefix:  "animated",
			FileExt:     "mp4",
			ParamOrder:  []string{"image_url", "prompt", "duration"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the image to animate."),
				"prompt":    promptField("How the scene should move."),
				"duration":  {Type: TypeString, Enum: []string{"5", "10"}, Help: "Clip length in seconds."},
			},
		},
		{
			Name:        "restyle_video",
			Description: "Rework an existing video according to a text prompt.",
			Model:       "fal-ai/video-to-video",
			Kind:        KindVideo,
			Latency:     LatencyLong,
			FilePrefix:  "restyled",
			FileExt:     "mp4",
			ParamOrder:  []string{"video_url", "prompt", "strength"},
			Params: map[string]FieldSpec{
				"video_url": urlField(true, "URL of the source video."),
				"prompt":    promptField("How to restyle the video."),
				"strength":  {Type: TypeNumber, Min: bound(0), Max: bound(1), Help: "How strongly to deviate from the source."},
			},
		},
		{
			Name:        "lipsync_video",
			Description: "Sync the lips in a video to a speech audio track.",
			Model:       "fal-ai/sync-lipsync",
			Kind:        KindVideo,
			Latency:     LatencyLong,
			FilePrefix:  "lipsync",
			FileExt:     "mp4",
			ParamOrder:  []string{"video_url", "audio_url"},
			Params: map[string]FieldSpec{
				"video_url": urlField(true, "URL of the video to re-sync."),
				"audio_url": urlField(true, "URL of the speech audio track."),
			},
		},
		{
			Name:        "upscale_video",
			Description: "Upscale a video, enhancing resolution.",
			Model:       "fal-ai/video-upscaler",
			Kind:        KindVideo,
			Latency:     LatencyLong,
			FilePrefix:  "upscaled",
			FileExt:     "mp4",
			ParamOrder:  []string{"video_url", "scale"},
			Params: map[string]FieldSpec{
				"video_url": urlField(true, "URL of the video to upscale."),
				"scale":     {Type: TypeInteger, Min: bound(2), Max: bound(4), Help: "Multiplier applied to both dimensions."},
			},
		},
		{
			Name:        "generate_speech",
			Description: "Synthesize spoken audio from text.",
			Model:       "fal-ai/playai/tts/v3",
			Kind:        KindAudio,
			Latency:     LatencyLong,
			FilePrefix:  "speech",
			FileExt:     "mp3",
			ParamOrder:  []string{"text", "voice"},
			Params: map[string]FieldSpec{
				"text": {Type: TypeString, Required: true, Help: "Text to speak."},
				"voice": {Type: TypeString, Help: "Voice preset.",
					Enum: []string{"Jennifer", "Dexter", "Ava", "Tilly", "Charlotte", "Simon"}},
			},
		},
		{
			Name:        "generate_music",
			Description: "Generate a music track from a text prompt.",
			Model:       "fal-ai/stable-audio",
			Kind:        KindAudio,
			Latency:     LatencyLong,
			FilePrefix:  "music",
			FileExt:     "wav",
			ParamOrder:  []string{"prompt", "duration_seconds", "seed"},
			Params: map[string]FieldSpec{
				"prompt":           promptField("Genre, mood, and instrumentation of the track."),
				"duration_seconds": {Type: TypeInteger, Min: bound(1), Max: bound(300), Help: "Track length in seconds."},
				"seed":             {Type: TypeInteger, Help: "Seed for reproducible output."},
			},
		},
		{
			Name:        "generate_sound_effect",
			Description: "Generate a sound effect from a text description.",
			Model:       "fal-ai/elevenlabs/sound-effects",
			Kind:        KindAudio,
			Latency:     LatencyLong,
			FilePrefix:  "sfx",
			FileExt:     "mp3",
			ParamOrder:  []string{"text", "duration_seconds"},
			Params: map[string]FieldSpec{
				"text":             {Type: TypeString, Required: true, Help: "Description of the sound."},
				"duration_seconds": {Type: TypeNumber, Min: bound(1), Max: bound(30), Help: "Effect length in seconds."},
			},
		},
		{
			Name:        "image_to_3d",
			Description: "Reconstruct a textured 3D model from a single image.",
			Model:       "fal-ai/hunyuan3d/v2",
			Kind:        KindModel3D,
			Latency:     LatencyLong,
			FilePrefix:  "model",
			FileExt:     "glb",
			ParamOrder:  []string{"image_url", "seed"},
			Params: map[string]FieldSpec{
				"image_url": urlField(true, "URL of the object photo."),
				"seed":      {Type: TypeInteger, Help: "Seed for reproducible output."},
			},
		},
		{
			Name:        "text_to_3d",
			Description: "Generate a textured 3D model from a text prompt.",
			Model:       "fal-ai/hunyuan3d/v2/turbo/text-to-3d",
			Kind:        KindModel3D,
			Latency:     LatencyLong,
			FilePrefix:  "model",
			FileExt:     "glb",
			ParamOrder:  []string{"prompt", "seed"},
			Params: map[string]FieldSpec{
				"prompt": promptField("Text description of the object to model."),
				"seed":   {Type: TypeInteger, Help: "Seed for reproducible output."},
			},
		},
	}
}
