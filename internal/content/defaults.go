// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package content

import (
	"github.com/olegiv/institute-go/internal/cache"
	"github.com/olegiv/institute-go/internal/model"
)

// FallbackAbout is shown until an about text is saved.
var FallbackAbout = model.AboutDoc{
	Text: "Established with a vision to provide quality technical education, we have been " +
		"shaping careers and building futures for aspiring technical professionals.",
}

// FallbackContact is shown until contact details are saved.
var FallbackContact = model.ContactDoc{
	Address: "Main Road, Near Bus Stand, Adarsh Nagar",
	Phone:   "+91 9876543210",
	Email:   "info@adarshtech.edu",
	Hours:   "Monday - Saturday: 9:00 AM - 6:00 PM",
}

func unsplash(id string) string {
	return "https://images.unsplash.com/" + id + "?ixlib=rb-1.2.1&auto=format&fit=crop&w=800&q=80"
}

func courseSeed(key string, d model.CourseDoc) cache.Seed {
	return cache.Seed{Key: key, Fields: d.Fields()}
}

// DefaultCourses are written to an empty courses collection.
var DefaultCourses = []cache.Seed{
	courseSeed("default-computer-fundamentals", model.CourseDoc{
		Title:       "Computer Fundamentals",
		Description: "Learn basic computer operations, file management, and essential applications.",
		Duration:    "2 months",
		Category:    "Basic Computer",
		Level:       model.LevelBeginner,
	}),
	courseSeed("default-ms-office", model.CourseDoc{
		Title:       "MS Office Suite",
		Description: "Master Microsoft Word, Excel, PowerPoint, and Outlook for professional use.",
		Duration:    "1.5 months",
		Category:    "Office Applications",
		Level:       model.LevelBeginner,
	}),
	courseSeed("default-programming-c", model.CourseDoc{
		Title:       "Programming in C",
		Description: "Learn the fundamentals of programming with C language.",
		Duration:    "3 months",
		Category:    "Programming",
		Level:       model.LevelIntermediate,
	}),
	courseSeed("default-web-development", model.CourseDoc{
		Title:       "Web Development (HTML/CSS/JS)",
		Description: "Build modern websites using HTML, CSS, and JavaScript.",
		Duration:    "4 months",
		Category:    "Web Development",
		Level:       model.LevelIntermediate,
	}),
	courseSeed("default-database-sql", model.CourseDoc{
		Title:       "Database Management (SQL)",
		Description: "Learn database design and management with SQL.",
		Duration:    "2.5 months",
		Category:    "Database",
		Level:       model.LevelIntermediate,
	}),
	courseSeed("default-graphic-design", model.CourseDoc{
		Title:       "Graphic Design",
		Description: "Master Adobe Photoshop and design principles.",
		Duration:    "3 months",
		Category:    "Design",
		Level:       model.LevelBeginner,
	}),
}

func gallerySeed(key, photo, title, description string) cache.Seed {
	return cache.Seed{Key: key, Fields: model.GalleryDoc{
		ImageURL:    unsplash(photo),
		Title:       title,
		Description: description,
	}.Fields()}
}

// DefaultGallery is written to an empty gallery collection.
var DefaultGallery = []cache.Seed{
	gallerySeed("default-computer-lab", "photo-1519389950473-47ba0277781c", "Computer Lab", "State-of-the-art computer laboratory with modern equipment"),
	gallerySeed("default-programming-class", "photo-1498050108023-c5249f4df085", "Programming Class", "Students learning programming concepts"),
	gallerySeed("default-web-development", "photo-1461749280684-dccba630e2f6", "Web Development Session", "Hands-on web development training"),
	gallerySeed("default-coding-workshop", "photo-1487058792275-0ad4aaf24ca7", "Coding Workshop", "Interactive coding workshop in progress"),
	gallerySeed("default-study-environment", "photo-1483058712412-4245e9b90334", "Study Environment", "Comfortable learning environment for students"),
	gallerySeed("default-online-learning", "photo-1581091226825-a6a2a5aee158", "Online Learning", "Modern online learning facilities"),
}

func feedbackSeed(key string, d model.FeedbackDoc) cache.Seed {
	return cache.Seed{Key: key, Fields: d.Fields()}
}

// DefaultFeedback is written to an empty feedback collection.
var DefaultFeedback = []cache.Seed{
	feedbackSeed("default-feedback-1", model.FeedbackDoc{
		Name:    "Rajesh Kumar",
		Course:  "Web Development",
		Rating:  5,
		Message: "Excellent teaching methods and very supportive faculty. The practical approach helped me understand concepts better.",
		Date:    "2024-01-15",
	}),
	feedbackSeed("default-feedback-2", model.FeedbackDoc{
		Name:    "Priya Sharma",
		Course:  "Programming in C",
		Rating:  4,
		Message: "Great institute with modern facilities. The course content is well-structured and industry-relevant.",
		Date:    "2024-01-10",
	}),
	feedbackSeed("default-feedback-3", model.FeedbackDoc{
		Name:    "Amit Patel",
		Course:  "MS Office Suite",
		Rating:  5,
		Message: "Very helpful staff and excellent training. I got placed in a good company after completing the course.",
		Date:    "2024-01-05",
	}),
}
