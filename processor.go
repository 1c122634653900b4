package carve

import (
	"io"

	"github.com/pkg/errors"
)

// Error values surfaced by the carving pipeline. Validation errors are
// raised before any seam is removed; dimension mismatches indicate a wiring
// bug between the seam finder and the remover, not a caller mistake.
var (
	ErrInvalidTarget     = errors.New("invalid target dimension")
	ErrDimensionMismatch = errors.New("seam does not match the buffer dimensions")
	ErrInvalidBuffer     = errors.New("buffer must be at least 1x1")
)

// SeamCarver is the interface the Processor implements. It takes a pixel
// buffer and returns the carved buffer matching the requested dimensions.
type SeamCarver interface {
	Carve(buf *PixelBuffer) (*PixelBuffer, error)
}

var _ SeamCarver = (*Processor)(nil)

// CarveStatus captures the progress of a running carve so callers can log
// it. The core itself never writes output.
type CarveStatus struct {
	Width   int
	Height  int
	Removed int
}

// Processor options.
type Processor struct {
	// NewWidth and NewHeight are the target dimensions. A zero value
	// leaves that dimension unchanged. Targets larger than the source are
	// rejected: the processor only shrinks, seam insertion is unsupported.
	NewWidth  int
	NewHeight int

	// Energy selects the energy function. Nil falls back to SobelEnergy.
	Energy EnergyComputer

	SobelThreshold float64
	BlurRadius     int

	// Scale rescales the image proportionally with Lanczos first, so the
	// carver only has to remove the seams the uniform scaling could not.
	// It only applies when both target dimensions are set.
	Scale bool

	// MaskPath points to a grayscale image whose bright regions are
	// protected from removal; RMaskPath marks regions to remove first.
	MaskPath  string
	RMaskPath string

	// FaceDetect protects detected faces from carving. Classifier is the
	// path of the pigo cascade file, FaceAngle the in-plane rotation.
	FaceDetect bool
	Classifier string
	FaceAngle  float64

	// OnStep, when set, is invoked after every removed seam.
	OnStep func(CarveStatus)

	mask    *EnergyMap
	rmask   *EnergyMap
	removed int
}

// energyFn resolves the configured energy function.
func (p *Processor) energyFn() EnergyComputer {
	if p.Energy != nil {
		return p.Energy
	}
	return &SobelEnergy{Threshold: p.SobelThreshold, BlurRadius: p.BlurRadius}
}

// Carve shrinks the buffer to the requested target dimensions by removing
// minimum energy seams one at a time. The width is always reduced fully
// before the height; the reference behavior is width-first and carving is
// not commutative, so the order is part of the contract. The height phase
// transposes the buffer, reuses the vertical seam pipeline and transposes
// the result back.
func (p *Processor) Carve(buf *PixelBuffer) (*PixelBuffer, error) {
	if buf == nil || buf.Width < 1 || buf.Height < 1 {
		return nil, errors.Wrap(ErrInvalidBuffer, "carve")
	}
	if p.NewWidth < 0 || (p.NewWidth != 0 && p.NewWidth > buf.Width) {
		return nil, errors.Wrapf(ErrInvalidTarget,
			"target width %d, image width %d (seam insertion is unsupported)", p.NewWidth, buf.Width)
	}
	if p.NewHeight < 0 || (p.NewHeight != 0 && p.NewHeight > buf.Height) {
		return nil, errors.Wrapf(ErrInvalidTarget,
			"target height %d, image height %d (seam insertion is unsupported)", p.NewHeight, buf.Height)
	}

	targetWidth, targetHeight := p.NewWidth, p.NewHeight
	if targetWidth == 0 {
		targetWidth = buf.Width
	}
	if targetHeight == 0 {
		targetHeight = buf.Height
	}

	if p.Scale && p.NewWidth != 0 && p.NewHeight != 0 {
		buf = prescale(buf, targetWidth, targetHeight)
	}

	if err := p.loadArtifacts(buf); err != nil {
		return nil, err
	}
	p.removed = 0

	var err error
	if buf, err = p.reduceWidth(buf, targetWidth, false); err != nil {
		return nil, err
	}

	if buf.Height != targetHeight {
		buf = buf.Transpose()
		p.transposeMasks()

		if buf, err = p.reduceWidth(buf, targetHeight, true); err != nil {
			return nil, err
		}
		buf = buf.Transpose()
		p.transposeMasks()
	}
	return buf, nil
}

// reduceWidth removes vertical seams until the buffer reaches the target
// width. When the width already matches, the buffer is returned untouched.
// The transposed flag only affects how progress is reported: during the
// height phase the buffer's axes are swapped.
func (p *Processor) reduceWidth(buf *PixelBuffer, target int, transposed bool) (*PixelBuffer, error) {
	energyFn := p.energyFn()

	for buf.Width > target {
		energy, err := energyFn.Energy(buf)
		if err != nil {
			return nil, err
		}
		p.shapeEnergy(energy)

		c := NewCarver(buf.Width, buf.Height)
		if err := c.ComputeSeams(energy); err != nil {
			return nil, err
		}
		seam, _ := c.FindLowestEnergySeam()

		if buf, err = c.RemoveSeam(buf, seam); err != nil {
			return nil, err
		}
		if err := p.removeMaskSeam(seam); err != nil {
			return nil, err
		}

		p.removed++
		if p.OnStep != nil {
			status := CarveStatus{Width: buf.Width, Height: buf.Height, Removed: p.removed}
			if transposed {
				status.Width, status.Height = status.Height, status.Width
			}
			p.OnStep(status)
		}
	}
	return buf, nil
}

// loadArtifacts prepares the protection and removal masks and, when face
// detection is enabled, paints the detected face zones into the protection
// mask. Face zones travel with the mask through every seam removal, so they
// stay aligned while the buffer shrinks.
func (p *Processor) loadArtifacts(buf *PixelBuffer) error {
	p.mask, p.rmask = nil, nil

	if p.MaskPath != "" {
		mask, err := loadMask(p.MaskPath, buf.Width, buf.Height)
		if err != nil {
			return err
		}
		p.mask = mask
	}
	if p.RMaskPath != "" {
		rmask, err := loadMask(p.RMaskPath, buf.Width, buf.Height)
		if err != nil {
			return err
		}
		p.rmask = rmask
	}

	if p.FaceDetect {
		faces, err := detectFaces(buf, p.Classifier, p.FaceAngle)
		if err != nil {
			return err
		}
		if len(faces) > 0 {
			if p.mask == nil {
				p.mask = NewEnergyMap(buf.Width, buf.Height)
			}
			paintFaceZones(p.mask, faces)
		}
	}
	return nil
}

// maskBoost dominates any achievable gradient magnitude, so a fully masked
// pixel always outranks (or underranks) unmasked ones.
const maskBoost = 1000.0

// shapeEnergy raises the energy under the protection mask and sinks it under
// the removal mask. Removal zones may go negative, which steers the minimum
// cost path through them before anything else.
func (p *Processor) shapeEnergy(energy *EnergyMap) {
	if p.mask != nil {
		for i, v := range p.mask.Cells {
			energy.Cells[i] += v * maskBoost
		}
	}
	if p.rmask != nil {
		for i, v := range p.rmask.Cells {
			energy.Cells[i] -= v * maskBoost
		}
	}
}

// removeMaskSeam keeps the masks aligned with the shrinking buffer.
func (p *Processor) removeMaskSeam(seam Seam) error {
	var err error
	if p.mask != nil {
		if p.mask, err = removeSeamFromMap(p.mask, seam); err != nil {
			return err
		}
	}
	if p.rmask != nil {
		if p.rmask, err = removeSeamFromMap(p.rmask, seam); err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) transposeMasks() {
	if p.mask != nil {
		p.mask = transposeMap(p.mask)
	}
	if p.rmask != nil {
		p.rmask = transposeMap(p.rmask)
	}
}

// Process decodes the image from the reader, carves it to the configured
// dimensions and encodes the result into the writer. The encoder is chosen
// from the destination file extension, falling back to JPEG for plain
// writers.
func (p *Processor) Process(r io.Reader, w io.Writer) error {
	buf, err := decodeImage(r)
	if err != nil {
		return err
	}

	res, err := p.Carve(buf)
	if err != nil {
		return err
	}
	return encodeImage(w, res)
}
