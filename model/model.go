package model

var Models = []interface{}{
	&Token{},
}
