package zdata

import (
    "bytes"
    "fmt"
    "image"
    "image/jpeg"
    "image/png"
)

// ZtypeImage tags records produced by the image codec.
const ZtypeImage = "image"

// Image pairs a decoded image with the container format it came from.
// Format is a registered image format name ("png", "jpeg"); empty means
// unknown, which encodes as PNG.
type Image struct {
    Img    image.Image
    Format string
}

// The codec transcodes to a self-describing compressed container:
// PNG (lossless) by default, keeping a known source format so a decoded
// JPEG does not get inflated into PNG on the way back out.
func encodeImage(v any) (Record, error) {
    var src *Image
    switch x := v.(type) {
    case *Image:
        src = x
    case image.Image:
        src = &Image{Img: x}
    default:
        return nil, fmt.Errorf("%w: image encoder needs image.Image, got %T", ErrInvalidCodecInput, v)
    }
    if src.Img == nil {
        return nil, fmt.Errorf("%w: nil image", ErrInvalidCodecInput)
    }

    format := src.Format
    var buf bytes.Buffer
    var err error
    switch format {
    case "jpeg":
        err = jpeg.Encode(&buf, src.Img, &jpeg.Options{Quality: 100})
    default:
        format = "png"
        err = png.Encode(&buf, src.Img)
    }
    if err != nil {
        return nil, fmt.Errorf("%w: %s encode: %v", ErrInvalidCodecInput, format, err)
    }
    return Record{
        FieldZtype: ZtypeImage,
        FieldBytes: buf.Bytes(),
        "format":   format,
    }, nil
}

func decodeImage(r Record) (any, error) {
    b := r.Bytes()
    if len(b) == 0 {
        return nil, fmt.Errorf("%w: empty image payload", ErrCorruptPayload)
    }
    img, format, err := image.Decode(bytes.NewReader(b))
    if err != nil {
        return nil, fmt.Errorf("%w: image decode: %v", ErrCorruptPayload, err)
    }
    return &Image{Img: img, Format: format}, nil
}

func isImage(v any) bool {
    _, ok := v.(image.Image)
    return ok
}
