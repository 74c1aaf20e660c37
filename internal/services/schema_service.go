package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sqlsage/sqlsage-backend/internal/clock"
	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrNoSchema      = errors.New("no database schema configured")
	ErrInvalidSchema = errors.New("schema must contain CREATE TABLE statements")
)

// SchemaService persists the per-user database schema that the
// natural-language endpoint generates queries against.
type SchemaService struct {
	db  *gorm.DB
	clk clock.Clock
}

func NewSchemaService(db *gorm.DB, clk clock.Clock) *SchemaService {
	return &SchemaService{db: db, clk: clk}
}

// Save stores or replaces the caller's schema.
func (s *SchemaService) Save(email, schemaText string) (*models.UserSchema, error) {
	if !validSchema(schemaText) {
		return nil, ErrInvalidSchema
	}

	var existing models.UserSchema
	err := s.db.First(&existing, "user_email = ?", email).Error
	switch {
	case err == nil:
		existing.SchemaText = schemaText
		existing.UpdatedAt = s.clk.Now()
		if err := s.db.Model(&existing).Updates(map[string]interface{}{
			"schema_text": schemaText,
			"updated_at":  existing.UpdatedAt,
		}).Error; err != nil {
			return nil, err
		}
		return &existing, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		entry := models.UserSchema{
			ID:         uuid.New(),
			UserEmail:  email,
			SchemaText: schemaText,
			CreatedAt:  s.clk.Now(),
			UpdatedAt:  s.clk.Now(),
		}
		if err := s.db.Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil

	default:
		return nil, err
	}
}

func (s *SchemaService) Get(email string) (*models.UserSchema, error) {
	var entry models.UserSchema
	if err := s.db.First(&entry, "user_email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNoSchema
		}
		return nil, err
	}
	return &entry, nil
}

// Clear removes the caller's schema. Clearing an absent schema is not an
// error.
func (s *SchemaService) Clear(email string) error {
	return s.db.Where("user_email = ?", email).Delete(&models.UserSchema{}).Error
}

// Samples returns the built-in quick-start schemas.
func (s *SchemaService) Samples() []dto.SampleSchema {
	return []dto.SampleSchema{
		{Name: "E-commerce", Schema: sampleEcommerce},
		{Name: "HR Database", Schema: sampleHR},
		{Name: "School Database", Schema: sampleSchool},
	}
}

// validSchema is a shape check, not a parse: the text must at least look
// like CREATE TABLE statements before it anchors generated queries.
func validSchema(schemaText string) bool {
	upper := strings.ToUpper(schemaText)
	return strings.Contains(upper, "CREATE TABLE") &&
		strings.Contains(schemaText, "(") &&
		strings.Contains(schemaText, ")")
}

const sampleEcommerce = `CREATE TABLE customers (
    customer_id INT PRIMARY KEY,
    first_name VARCHAR(50),
    last_name VARCHAR(50),
    email VARCHAR(100) UNIQUE,
    city VARCHAR(100),
    state VARCHAR(50),
    country VARCHAR(50),
    created_at TIMESTAMP
);

CREATE TABLE products (
    product_id INT PRIMARY KEY,
    product_name VARCHAR(200),
    category VARCHAR(100),
    price DECIMAL(10,2),
    stock_quantity INT,
    created_at TIMESTAMP
);

CREATE TABLE orders (
    order_id INT PRIMARY KEY,
    customer_id INT REFERENCES customers(customer_id),
    order_date TIMESTAMP,
    total_amount DECIMAL(10,2),
    status VARCHAR(50)
);

CREATE TABLE order_items (
    order_item_id INT PRIMARY KEY,
    order_id INT REFERENCES orders(order_id),
    product_id INT REFERENCES products(product_id),
    quantity INT,
    unit_price DECIMAL(10,2)
);`

const sampleHR = `CREATE TABLE employees (
    employee_id INT PRIMARY KEY,
    first_name VARCHAR(50),
    last_name VARCHAR(50),
    email VARCHAR(100),
    hire_date DATE,
    job_title VARCHAR(100),
    salary DECIMAL(10,2),
    department_id INT,
    manager_id INT
);

CREATE TABLE departments (
    department_id INT PRIMARY KEY,
    department_name VARCHAR(100),
    location VARCHAR(100)
);

CREATE TABLE attendance (
    attendance_id INT PRIMARY KEY,
    employee_id INT REFERENCES employees(employee_id),
    date DATE,
    check_in TIME,
    check_out TIME,
    status VARCHAR(20)
);`

const sampleSchool = `CREATE TABLE students (
    student_id INT PRIMARY KEY,
    first_name VARCHAR(50),
    last_name VARCHAR(50),
    email VARCHAR(100),
    enrollment_date DATE,
    grade_level INT
);

CREATE TABLE courses (
    course_id INT PRIMARY KEY,
    course_name VARCHAR(100),
    credits INT,
    department VARCHAR(50)
);

CREATE TABLE enrollments (
    enrollment_id INT PRIMARY KEY,
    student_id INT REFERENCES students(student_id),
    course_id INT REFERENCES courses(course_id),
    semester VARCHAR(20),
    grade VARCHAR(2)
);

CREATE TABLE teachers (
    teacher_id INT PRIMARY KEY,
    first_name VARCHAR(50),
    last_name VARCHAR(50),
    email VARCHAR(100),
    department VARCHAR(50)
);`
