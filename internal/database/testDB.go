package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "github.com/wonder-codes/Placement-Portal-Project/internal/model"
	"github.com/wonder-codes/Placement-Portal-Project/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context) error

// Exported test users & profiles
var (
	TestTPOUser        m.User
	TestUserStudent1   m.User
	TestUserStudent2   m.User
	TestUserRecruiter1 m.User
	TestUserRecruiter2 m.User
	TestStudent1       m.Student
	TestStudent2       m.Student
	TestCompany1       m.Company
	TestCompany2       m.Company

	// Plain password every seeded account logs in with
	TestSeedPassword = "SeedPass123!"

	// Exported seeded jobs
	TestJob1 m.Job // published, open criteria
	TestJob2 m.Job // published, minCGPA 7.5
	TestJob3 m.Job // draft, invisible to students
	TestJob4 m.Job // published, ECE only
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "placement"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts sample users, student profiles, companies and jobs if empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	userSpecs := []struct {
		username string
		name     string
		email    string
		role     string
		verified bool
	}{
		{"student_1", "Asha Verma", "student1@example.edu", m.RoleStudent, true},
		{"student_2", "Rohan Iyer", "student2@example.edu", m.RoleStudent, false},
		{"recruiter_1", "Priya Shah", "recruiter1@technova.com", m.RoleRecruiter, true},
		{"recruiter_2", "Dan Mercer", "recruiter2@dataforge.io", m.RoleRecruiter, true},
		{"tpo_officer", "Placement Officer", "tpo@example.edu", m.RoleTPO, true},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		email := s.email
		users = append(users, m.User{
			ID:         uuid.New(),
			Username:   s.username,
			Name:       s.name,
			Email:      &email,
			Role:       s.role,
			Password:   hashedPwd,
			IsVerified: s.verified,
		})
	}

	if err := db.Create(&users).Error; err != nil {
		return err
	}

	for _, u := range users {
		switch u.Username {
		case "student_1":
			TestUserStudent1 = u
		case "student_2":
			TestUserStudent2 = u
		case "recruiter_1":
			TestUserRecruiter1 = u
		case "recruiter_2":
			TestUserRecruiter2 = u
		case "tpo_officer":
			TestTPOUser = u
		}
	}

	students := []m.Student{
		{
			UserID: TestUserStudent1.ID,
			EditableStudentInfo: m.EditableStudentInfo{
				Department:  "CS",
				CGPA:        7.0,
				Backlogs:    1,
				Skills:      pq.StringArray{"Go", "SQL"},
				PassingYear: 2026,
			},
			PlacementStatus: m.PlacementUnplaced,
		},
		{
			UserID: TestUserStudent2.ID,
			EditableStudentInfo: m.EditableStudentInfo{
				Department:  "IT",
				CGPA:        9.1,
				Backlogs:    0,
				Skills:      pq.StringArray{"Python", "ML"},
				PassingYear: 2026,
			},
			PlacementStatus: m.PlacementUnplaced,
		},
	}
	if err := db.Create(&students).Error; err != nil {
		return err
	}
	TestStudent1 = students[0]
	TestStudent2 = students[1]

	companies := []m.Company{
		{
			Name: "TechNova",
			EditableCompanyInfo: m.EditableCompanyInfo{
				Description: "Platform engineering products",
				Website:     "https://technova.example.com",
				Location:    "Pune",
				HRContact:   m.HRContact{Name: "Priya Shah", Email: "hr@technova.com", Phone: "0100000001"},
			},
			Status:      m.CompanyActive,
			CreatedByID: TestUserRecruiter1.ID,
		},
		{
			Name: "DataForge",
			EditableCompanyInfo: m.EditableCompanyInfo{
				Description: "Data analytics consulting",
				Location:    "Remote",
			},
			Status:      m.CompanyDraft,
			CreatedByID: TestUserRecruiter2.ID,
		},
	}
	if err := db.Create(&companies).Error; err != nil {
		return err
	}
	TestCompany1 = companies[0]
	TestCompany2 = companies[1]

	deadline1 := time.Now().AddDate(0, 1, 0)
	deadline2 := time.Now().AddDate(0, 2, 0)

	jobs := []m.Job{
		{
			RecruiterID: TestUserRecruiter1.ID,
			CompanyID:   TestCompany1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Role:        "Backend Engineer",
				Description: "Build Go services for the placement platform.",
				Package:     12,
				JobType:     m.JobTypeFullTime,
				Location:    "Pune",
				Eligibility: m.Eligibility{MinCGPA: 6.5, MaxBacklogs: 2, PassingYear: 2026},
				Deadline:    &deadline1,
			},
			Rounds: []m.SelectionRound{
				{Seq: 1, Name: "Test", Description: "Online aptitude test"},
				{Seq: 2, Name: "Technical", Description: "Technical interview"},
				{Seq: 3, Name: "HR", Description: "HR round"},
			},
			Status: m.JobPublished,
		},
		{
			RecruiterID: TestUserRecruiter1.ID,
			CompanyID:   TestCompany1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Role:        "Data Scientist",
				Package:     18,
				JobType:     m.JobTypeFullTime,
				Eligibility: m.Eligibility{MinCGPA: 7.5, MaxBacklogs: 0, PassingYear: 2026},
				Deadline:    &deadline2,
			},
			Status: m.JobPublished,
		},
		{
			RecruiterID: TestUserRecruiter2.ID,
			CompanyID:   TestCompany2.ID,
			EditableJobInfo: m.EditableJobInfo{
				Role:    "Analyst Intern",
				Package: 4,
				JobType: m.JobTypeInternship,
			},
			Status: m.JobDraft,
		},
		{
			RecruiterID: TestUserRecruiter1.ID,
			CompanyID:   TestCompany1.ID,
			EditableJobInfo: m.EditableJobInfo{
				Role:        "Embedded Engineer",
				Package:     10,
				JobType:     m.JobTypeFullTime,
				Eligibility: m.Eligibility{MinCGPA: 6, MaxBacklogs: 2, AllowedBranches: pq.StringArray{"ECE"}},
			},
			Status: m.JobPublished,
		},
	}
	if err := db.Create(&jobs).Error; err != nil {
		return err
	}
	TestJob1 = jobs[0]
	TestJob2 = jobs[1]
	TestJob3 = jobs[2]
	TestJob4 = jobs[3]

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("username IN ?", []string{
		"student_1", "student_2", "recruiter_1", "recruiter_2", "tpo_officer",
	}).Find(&users).Error; err != nil {
		return err
	}
	for _, u := range users {
		switch u.Username {
		case "student_1":
			TestUserStudent1 = u
		case "student_2":
			TestUserStudent2 = u
		case "recruiter_1":
			TestUserRecruiter1 = u
		case "recruiter_2":
			TestUserRecruiter2 = u
		case "tpo_officer":
			TestTPOUser = u
		}
	}

	_ = db.First(&TestStudent1, "user_id = ?", TestUserStudent1.ID).Error
	_ = db.First(&TestStudent2, "user_id = ?", TestUserStudent2.ID).Error
	_ = db.First(&TestCompany1, "created_by_id = ?", TestUserRecruiter1.ID).Error
	_ = db.First(&TestCompany2, "created_by_id = ?", TestUserRecruiter2.ID).Error

	var jobs []m.Job
	if err := db.Order("id ASC").Limit(4).Find(&jobs).Error; err == nil {
		if len(jobs) > 0 {
			TestJob1 = jobs[0]
		}
		if len(jobs) > 1 {
			TestJob2 = jobs[1]
		}
		if len(jobs) > 2 {
			TestJob3 = jobs[2]
		}
		if len(jobs) > 3 {
			TestJob4 = jobs[3]
		}
	}

	return nil
}
