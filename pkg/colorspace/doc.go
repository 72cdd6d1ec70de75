/*
Package colorspace converts normalized RGB colors to HSV.

RGBToHSV is the checked entry point used by graph nodes and adapters: it
rejects missing or wrongly sized input with ErrInvalidArgument. RGB.HSV applies
the same arithmetic to an already validated triple. Both are pure and safe for
concurrent use.

The hue produced here follows the node library's established arithmetic and is
not the textbook value; Textbook provides the latter for comparison.
*/
package colorspace
