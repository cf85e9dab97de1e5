package like

const (
	// Both products and feedback keep their like counter in this field
	SumLikeFieldPath string = "sumLike"
)
