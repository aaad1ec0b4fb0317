package physics

import "github.com/jakecoffman/cp"

// Bodies of one pendulum never collide with each other.
const group = 1

var filter = cp.NewShapeFilter(group, cp.ALL_CATEGORIES, cp.ALL_CATEGORIES)

// Cart is the box body that slides along the rail and carries the rod.
type Cart struct {
	Body  *cp.Body
	Shape *cp.Shape
	Mass  float64
	Size  [2]float64
}

func newCart(space *cp.Space, mass float64, size [2]float64, pos cp.Vector) *Cart {
	body := space.AddBody(cp.NewBody(mass, cp.MomentForBox(mass, size[0], size[1])))
	body.SetPosition(pos)

	shape := space.AddShape(cp.NewBox(body, size[0], size[1], 0))
	shape.SetFilter(filter)

	return &Cart{Body: body, Shape: shape, Mass: mass, Size: size}
}

// Bob is the circle at the end of the rod.
type Bob struct {
	Body   *cp.Body
	Shape  *cp.Shape
	Mass   float64
	Radius float64
}

func newBob(space *cp.Space, mass, radius float64, pos cp.Vector) *Bob {
	body := space.AddBody(cp.NewBody(mass, cp.MomentForCircle(mass, 0, radius, cp.Vector{})))
	body.SetPosition(pos)

	shape := space.AddShape(cp.NewCircle(body, radius, cp.Vector{}))
	shape.SetFilter(filter)

	return &Bob{Body: body, Shape: shape, Mass: mass, Radius: radius}
}
