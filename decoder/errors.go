package decoder

import "errors"

var errUnrecognizedFunct3 = errors.New("unrecognized funct3")
