package workspace

import "github.com/Ashfaaq98/evidence-console/internal/api"

// Static demo data. The console stays usable against an empty or unreachable
// backend: known demo cases get seeded conversations, and the evidence
// directory falls back to this list (flagged as degraded) when the evidence
// service cannot be reached.

// DemoMessages returns the seeded conversation for known demo case ids, or
// the default conversation for everything else.
func DemoMessages(caseID string) []api.Message {
	switch caseID {
	case "demo-traffic-case":
		return demoTrafficMessages()
	case "demo-intersection-case":
		return demoIntersectionMessages()
	default:
		return defaultMessages()
	}
}

func demoTrafficMessages() []api.Message {
	return []api.Message{
		{
			ID:        "1",
			Role:      "assistant",
			Content:   "Hello, I'm your AI Evidence Assistant. I've analyzed the uploaded traffic surveillance video (Highway_Route66_Feb18.mp4). The video spans 4 hours of footage from February 18, 2026. Ask me anything about the traffic patterns, vehicle movements, or specific incidents.",
			Timestamp: "2026-02-21T09:32:00Z",
		},
		{
			ID:        "2",
			Role:      "user",
			Content:   "Please give me the time when car has been passed on the road",
			Timestamp: "2026-02-21T09:35:00Z",
		},
		{
			ID:        "3",
			Role:      "assistant",
			Content:   "I've analyzed the video footage and detected 3 instances where a black sedan (License plate: ABC-1234) passed through the monitored section of Route 66. All three passes have been verified with clear license plate visibility and consistent vehicle identification markers.",
			Timestamp: "2026-02-21T09:35:30Z",
			Sources: []api.Source{
				{Filename: "Highway_Route66_Feb18.mp4", CameraID: "CAM-HWY-66-E", Timestamp: "10:24:18", Date: "Feb 18, 2026"},
				{Filename: "Highway_Route66_Feb18.mp4", CameraID: "CAM-HWY-66-E", Timestamp: "12:47:52", Date: "Feb 18, 2026"},
				{Filename: "Highway_Route66_Feb18.mp4", CameraID: "CAM-HWY-66-E", Timestamp: "02:15:33", Date: "Feb 18, 2026"},
			},
		},
	}
}

func demoIntersectionMessages() []api.Message {
	return []api.Message{
		{
			ID:        "1",
			Role:      "assistant",
			Content:   "Hello, I'm your AI Evidence Assistant. I've analyzed the uploaded intersection surveillance video (Intersection_MainSt_5thAve_Feb15.mp4). The video contains 6 hours of continuous footage from February 15, 2026. How can I assist with your investigation?",
			Timestamp: "2026-02-21T10:15:00Z",
		},
		{
			ID:        "2",
			Role:      "user",
			Content:   "Please give me the time when car has been passed on the road",
			Timestamp: "2026-02-21T10:18:00Z",
		},
		{
			ID:        "3",
			Role:      "assistant",
			Content:   "I've detected 3 instances of the silver SUV (License plate: XYZ-7890) passing through the Main St & 5th Ave intersection. Below is a detailed table with timestamps and descriptions:",
			Timestamp: "2026-02-21T10:18:30Z",
			Table: &api.Table{
				Headers: []string{"Date", "Time", "Description"},
				Rows: []api.TableRow{
					{Date: "February 15, 2026", Time: "11:05:23 AM", Description: "Silver SUV traveling northbound at approximately 45 mph. Vehicle enters frame from west and exits on the east side."},
					{Date: "February 15, 2026", Time: "1:32:45 PM", Description: "Same silver SUV returning southbound at approximately 40 mph. Vehicle slows down near the intersection before continuing."},
					{Date: "February 15, 2026", Time: "3:10:12 PM", Description: "Silver SUV traveling northbound again at approximately 48 mph. No stops or unusual behavior detected."},
				},
			},
			Sources: []api.Source{
				{Filename: "Intersection_MainSt_5thAve_Feb15.mp4", CameraID: "CAM-INT-MS-5A", Timestamp: "11:05:23", Date: "Feb 15, 2026"},
				{Filename: "Intersection_MainSt_5thAve_Feb15.mp4", CameraID: "CAM-INT-MS-5A", Timestamp: "13:32:45", Date: "Feb 15, 2026"},
				{Filename: "Intersection_MainSt_5thAve_Feb15.mp4", CameraID: "CAM-INT-MS-5A", Timestamp: "15:10:12", Date: "Feb 15, 2026"},
			},
		},
	}
}

func defaultMessages() []api.Message {
	return []api.Message{
		{
			ID:        "1",
			Role:      "assistant",
			Content:   "Hello, I'm your AI Evidence Assistant. I've analyzed all uploaded evidence files. Ask me anything about the case.",
			Timestamp: "2026-02-21T14:34:00Z",
		},
		{
			ID:        "2",
			Role:      "user",
			Content:   "What happened between 3:15 PM and 3:30 PM on February 14th?",
			Timestamp: "2026-02-21T14:35:00Z",
		},
		{
			ID:        "3",
			Role:      "assistant",
			Content:   "Based on the evidence, at 3:18 PM, a black sedan was observed entering the parking lot from the north entrance. At 3:22 PM, two individuals exited the vehicle and approached the building entrance. The security camera footage shows clear visibility of both subjects.",
			Timestamp: "2026-02-21T14:35:20Z",
			Sources: []api.Source{
				{Filename: "NorthCam_021426_1518.mp4", CameraID: "CAM-N-01", Timestamp: "15:18:34", Date: "Feb 14, 2026"},
				{Filename: "EntranceCam_021426_1522.mp4", CameraID: "CAM-E-03", Timestamp: "15:22:11", Date: "Feb 14, 2026"},
			},
		},
	}
}

// SampleEvidence is the degraded-mode evidence list, filtered by kind.
func SampleEvidence(kind api.MediaKind) []api.EvidenceFile {
	all := []api.EvidenceFile{
		{ID: "v1", Name: "Parking_Lot_NorthCam.mp4", Kind: api.KindVideo, UploadDate: "February 21, 2026", UploadTime: "09:15 AM"},
		{ID: "v2", Name: "Entrance_MainDoor_021426.mp4", Kind: api.KindVideo, UploadDate: "February 21, 2026", UploadTime: "09:18 AM"},
		{ID: "v3", Name: "Highway_Route66_Feb18.mp4", Kind: api.KindVideo, UploadDate: "February 21, 2026", UploadTime: "09:22 AM"},
		{ID: "v4", Name: "BackAlley_Camera3_021426.mp4", Kind: api.KindVideo, UploadDate: "February 20, 2026", UploadTime: "02:45 PM"},
		{ID: "v5", Name: "Intersection_MainSt_5thAve.mp4", Kind: api.KindVideo, UploadDate: "February 20, 2026", UploadTime: "03:12 PM"},
		{ID: "i1", Name: "License_Plate_ABC1234.jpg", Kind: api.KindImage, UploadDate: "February 21, 2026", UploadTime: "08:30 AM"},
		{ID: "i2", Name: "Suspect_Profile_Front.jpg", Kind: api.KindImage, UploadDate: "February 21, 2026", UploadTime: "08:35 AM"},
		{ID: "i3", Name: "Evidence_Tag_47A.jpg", Kind: api.KindImage, UploadDate: "February 20, 2026", UploadTime: "01:15 PM"},
		{ID: "i4", Name: "Fingerprint_Door_Handle.jpg", Kind: api.KindImage, UploadDate: "February 20, 2026", UploadTime: "02:00 PM"},
		{ID: "a1", Name: "911_Call_Recording_021426.mp3", Kind: api.KindAudio, UploadDate: "February 21, 2026", UploadTime: "10:00 AM"},
		{ID: "a2", Name: "Witness_Interview_Subject_A.mp3", Kind: api.KindAudio, UploadDate: "February 21, 2026", UploadTime: "10:30 AM"},
		{ID: "a3", Name: "Detective_Notes_Recording.mp3", Kind: api.KindAudio, UploadDate: "February 20, 2026", UploadTime: "11:00 AM"},
	}
	if kind == "" {
		return all
	}
	filtered := make([]api.EvidenceFile, 0, len(all))
	for _, f := range all {
		if f.Kind == kind {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// DemoCaseMeta maps known demo case ids to display metadata.
var DemoCaseMeta = map[string]CaseMeta{
	"demo-traffic-case": {
		Title:         "Highway Traffic Analysis - Route 66",
		EvidenceCount: "1 video file",
	},
	"demo-intersection-case": {
		Title:         "Intersection Surveillance - Main St & 5th Ave",
		EvidenceCount: "1 video file",
	},
}

// DefaultCaseMeta is the last-resort display metadata.
var DefaultCaseMeta = CaseMeta{
	Title:         "State v. Anderson - Robbery Investigation",
	EvidenceCount: "47 evidence files",
}
