package machine

// Display is the 64x32 monochrome pixel buffer. Coordinates wrap around the
// edges of the screen.
type Display struct {
	pixels [Width * Height]bool
	dirty  bool
}

// Clear turns all pixels off and marks the display as changed.
func (d *Display) Clear() {
	d.pixels = [Width * Height]bool{}
	d.dirty = true
}

// Pixel returns whether the pixel at the given coordinate is set.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[pixelOffset(x, y)]
}

// SetPixel sets the pixel at the given coordinate and marks the display as
// changed if the value differs from the current one.
func (d *Display) SetPixel(x, y int, on bool) {
	offset := pixelOffset(x, y)
	if d.pixels[offset] == on {
		return
	}
	d.pixels[offset] = on
	d.dirty = true
}

// ShouldRedraw returns whether the display changed since the last call.
func (d *Display) ShouldRedraw() bool {
	dirty := d.dirty
	d.dirty = false
	return dirty
}

// Lit returns the number of pixels that are set.
func (d *Display) Lit() int {
	count := 0
	for _, on := range d.pixels {
		if on {
			count++
		}
	}
	return count
}

// drawSprite XORs the sprite rows onto the display with its top left corner at
// the given coordinate, the most significant bit of a row being the leftmost
// pixel. It returns whether any set pixel was turned off.
func (d *Display) drawSprite(x, y int, rows []byte) bool {
	var collision bool

	for row, data := range rows {
		for bit := range 8 {
			if data&(0x80>>bit) == 0 {
				continue
			}

			offset := pixelOffset(x+bit, y+row)
			if d.pixels[offset] {
				collision = true
			}
			d.pixels[offset] = !d.pixels[offset]
		}
	}

	if len(rows) > 0 {
		d.dirty = true
	}
	return collision
}

func pixelOffset(x, y int) int {
	x %= Width
	if x < 0 {
		x += Width
	}
	y %= Height
	if y < 0 {
		y += Height
	}
	return y*Width + x
}
