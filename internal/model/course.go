package model

// Course is a catalog course and the requirements it satisfies
type Course struct {
	Code         string   `json:"code" yaml:"code"`                 // e.g. "INFO 101"
	Title        string   `json:"title" yaml:"title"`
	Credits      float64  `json:"credits,omitempty" yaml:"credits,omitempty"`
	Semesters    []string `json:"semesters,omitempty" yaml:"semesters,omitempty"`       // Offered terms, e.g. "Fall 2026"
	Requirements []string `json:"requirements,omitempty" yaml:"requirements,omitempty"` // Raw requirement paths
}

// PlannedCourse is a course placed into a semester of a plan
type PlannedCourse struct {
	Code     string `json:"code" yaml:"code"`
	Semester string `json:"semester" yaml:"semester"`
}

// Plan is a named list of planned courses
type Plan struct {
	Name    string          `json:"name" yaml:"name"`
	Major   Major           `json:"major,omitempty" yaml:"major,omitempty"`
	Courses []PlannedCourse `json:"courses" yaml:"courses"`
}

// Add places a course into a semester, replacing an earlier placement of the same course
func (p *Plan) Add(code, semester string) {
	for i := range p.Courses {
		if p.Courses[i].Code == code {
			p.Courses[i].Semester = semester
			return
		}
	}
	p.Courses = append(p.Courses, PlannedCourse{Code: code, Semester: semester})
}

// Remove drops a course from the plan and reports whether it was present
func (p *Plan) Remove(code string) bool {
	for i := range p.Courses {
		if p.Courses[i].Code == code {
			p.Courses = append(p.Courses[:i], p.Courses[i+1:]...)
			return true
		}
	}
	return false
}
