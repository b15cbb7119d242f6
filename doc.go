/*
Package pixbin converts raster images to and from a flat binary container
holding raw RGBA pixels.

A framed container is a 17-byte little-endian header followed by the pixel
data:

	MAGIC "PNG\x00" | WIDTH u32 | HEIGHT u32 | MODE u8 | DATA_SIZE u32 | PIXELS

A headerless container is the pixel data alone; decoding it needs the width,
height and mode supplied by the caller.

Encode and Decode are pure transforms. EncodeFile and DecodeFile run the full
file conversion through the image formats of internal/imagefmt, and
ImageToContainer and ContainerToImage wrap them into a Result that never
carries an unhandled failure.
*/
package pixbin
